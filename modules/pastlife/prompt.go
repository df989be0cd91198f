package pastlife

import (
	"fmt"
	"strings"

	"pastlife-server/modules/common/fallback"
	"pastlife-server/modules/common/model"
)

// PortraitStyleSuffix - 이미지 프롬프트 끝에 항상 붙는 고정 스타일
const PortraitStyleSuffix = "posed for a formal portrait in classical oil painting style, " +
	"neutral background, soft studio lighting, rich historical detail."

// 프로필 필드가 비어 있을 때 쓰는 기본값
const (
	defaultEra        = "a past era"
	defaultGender     = "a person"
	defaultOccupation = "a historical figure"
)

// genderDescriptors - 성별 라벨 → 영어 묘사 (정확히 일치할 때만)
var genderDescriptors = map[string]string{
	"남성": "male",
	"여성": "female",
	"중성": "androgynous",
}

// GenderDescriptor - 알 수 없는 값은 "person"
func GenderDescriptor(gender string) string {
	if d, ok := genderDescriptors[gender]; ok {
		return d
	}
	return "person"
}

// BuildImagePrompt - 프로필로부터 클래식 초상화 스타일 이미지 프롬프트 생성
// 외부 호출 없음, 항상 같은 입력에 같은 결과
func BuildImagePrompt(profile model.CharacterProfile) string {
	era := fallback.SafeString(profile.Era, defaultEra)
	gender := fallback.SafeString(profile.Gender, defaultGender)
	occupation := fallback.SafeString(profile.Occupation, defaultOccupation)
	trait := fallback.SafeString(profile.Trait, "")

	return fmt.Sprintf("A %s %s from %s, %s, %s",
		GenderDescriptor(gender), occupation, era, strings.ToLower(trait), PortraitStyleSuffix)
}

// BuildProfileSystemPrompt - 전생 캐릭터 창작 지시문 (이름 포함)
func BuildProfileSystemPrompt(name string) string {
	return fmt.Sprintf(`당신은 이름 하나만 보고 전생 캐릭터 정보를 무작위로 창작하는 AI입니다.

다음 조건을 지키세요:
- "%[2]s"는 반드시 현재보다 과거여야 합니다 (미래 불가).
- "공간"은 전 세계 어디든 무작위일 수 있으며, 한국일 필요는 없습니다.

입력:
이름: %[1]s

출력 형식은 아래와 같습니다 (JSON):

{
  "%[2]s": "예: 15세기 이탈리아",
  "%[3]s": "여성 / 남성 / 중성",
  "%[4]s": "예: 궁중 서예가",
  "%[5]s": "예: 비단 한복을 입고 서재에 앉아 있는 모습",
  "%[6]s": "예: 차분하고 집중력이 강한 성격"
}
`, name, model.KeyEra, model.KeyGender, model.KeyOccupation, model.KeyTrait, model.KeyPersonality)
}

// BuildProfileUserPrompt - 사용자 메시지
func BuildProfileUserPrompt(name string) string {
	return fmt.Sprintf("%s의 전생 캐릭터를 알려줘.", name)
}
