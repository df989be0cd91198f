package pastlife

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"pastlife-server/modules/common/fallback"
	"pastlife-server/modules/common/model"
)

// 메시지 역할
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message - 텍스트 생성 서비스에 보내는 지시문 한 개
type Message struct {
	Role    string
	Content string
}

// TextRequest - 텍스트 생성 요청 {모델, 메시지 목록, temperature}
type TextRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
}

// TextGenerator - 텍스트 생성 서비스 (OpenAI / Gemini)
type TextGenerator interface {
	CompleteText(ctx context.Context, req TextRequest) (string, error)
}

// ProfileGenerator - 이름으로 전생 프로필을 만든다
type ProfileGenerator struct {
	text        TextGenerator
	model       string
	temperature float32
	timeout     time.Duration
}

// NewProfileGenerator - ProfileGenerator 생성
func NewProfileGenerator(text TextGenerator, model string, temperature float32, timeout time.Duration) *ProfileGenerator {
	return &ProfileGenerator{
		text:        text,
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// ValidateName - 앞뒤 공백 제거 후 길이 검사
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Generate - 텍스트 생성 서비스 1회 호출 후 응답을 프로필로 파싱
func (g *ProfileGenerator) Generate(ctx context.Context, name string) (*model.CharacterProfile, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	req := TextRequest{
		Model: g.model,
		Messages: []Message{
			{Role: RoleSystem, Content: BuildProfileSystemPrompt(name)},
			{Role: RoleUser, Content: BuildProfileUserPrompt(name)},
		},
		Temperature: g.temperature,
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log.Printf("📤 [PastLife] Requesting profile for %s (model: %s)", fallback.Truncate(name, 10), g.model)
	start := time.Now()

	content, err := g.text.CompleteText(ctx, req)
	if err != nil {
		log.Printf("❌ [PastLife] Text generation failed after %s: %v", time.Since(start), err)
		return nil, wrapServiceError(ctx, ServiceText, err, classifyProviderError)
	}

	profile, err := ParseProfile(content)
	if err != nil {
		log.Printf("❌ [PastLife] Profile parse failed: %v (response: %s)", err, fallback.Truncate(content, 80))
		return nil, err
	}

	log.Printf("✅ [PastLife] Profile generated in %s: %s / %s", time.Since(start), profile.Era, profile.Occupation)
	return profile, nil
}

// ParseProfile - 응답 텍스트를 CharacterProfile로 변환
// JSON 객체가 아니거나 다섯 키 중 하나라도 없거나 null이면 ParseError
func ParseProfile(raw string) (*model.CharacterProfile, error) {
	body := stripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if fields == nil {
		// 리터럴 null
		return nil, &ParseError{Raw: raw, Err: errors.New("response is null")}
	}

	values := make(map[string]string, len(model.ProfileKeys))
	var missing []string
	for _, key := range model.ProfileKeys {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			missing = append(missing, key)
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("field %q is not a string: %w", key, err)}
		}
		values[key] = s
	}
	if len(missing) > 0 {
		return nil, &ParseError{Raw: raw, Missing: missing}
	}

	return &model.CharacterProfile{
		Era:         values[model.KeyEra],
		Gender:      values[model.KeyGender],
		Occupation:  values[model.KeyOccupation],
		Trait:       values[model.KeyTrait],
		Personality: values[model.KeyPersonality],
	}, nil
}

// stripCodeFence - ```json ... ``` 로 감싼 응답에서 본문만 꺼냄
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// 첫 줄은 언어 표시 (json 등)
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
