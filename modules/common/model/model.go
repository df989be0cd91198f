package model

import "time"

// CharacterProfile - 텍스트 생성 서비스가 만든 전생 캐릭터 정보 (요청 1회 동안만 유지)
type CharacterProfile struct {
	Era         string `json:"era"`         // 시대
	Gender      string `json:"gender"`      // 성별 (여성 / 남성 / 중성, 실제로는 자유 텍스트)
	Occupation  string `json:"occupation"`  // 직업
	Trait       string `json:"trait"`       // 특징 (외형/행동 묘사)
	Personality string `json:"personality"` // 성격 키워드
}

// 텍스트 생성 서비스 응답의 JSON 키 (번역하지 않고 그대로 사용)
const (
	KeyEra         = "시대"
	KeyGender      = "성별"
	KeyOccupation  = "직업"
	KeyTrait       = "특징"
	KeyPersonality = "성격 키워드"
)

// ProfileKeys - 응답에 반드시 있어야 하는 키 목록 (순서 고정)
var ProfileKeys = []string{KeyEra, KeyGender, KeyOccupation, KeyTrait, KeyPersonality}

// DrawJob - Redis 큐에 들어가는 비동기 뽑기 요청
type DrawJob struct {
	JobID      string    `json:"job_id"`
	Name       string    `json:"name"`
	SessionID  string    `json:"session_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// 비동기 요청 최종 상태 (웹소켓 result / error 이벤트)
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
