package pastlife

import (
	"strings"
	"testing"

	"pastlife-server/modules/common/model"
)

func TestBuildImagePrompt(t *testing.T) {
	profile := model.CharacterProfile{
		Era:         "18세기 프랑스",
		Gender:      "여성",
		Occupation:  "궁중 화가",
		Trait:       "Holding a paintbrush",
		Personality: "섬세함",
	}

	got := BuildImagePrompt(profile)

	wantPrefix := "A female 궁중 화가 from 18세기 프랑스, holding a paintbrush, "
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("prompt = %q, want prefix %q", got, wantPrefix)
	}
	if !strings.HasSuffix(got, PortraitStyleSuffix) {
		t.Errorf("prompt = %q, want style suffix", got)
	}
}

func TestGenderDescriptor(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"남성", "male"},
		{"여성", "female"},
		{"중성", "androgynous"},
		{"male", "person"},
		{"여자", "person"},
		{"", "person"},
	}

	for _, tt := range tests {
		if got := GenderDescriptor(tt.gender); got != tt.want {
			t.Errorf("GenderDescriptor(%q) = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestBuildImagePrompt_EmptyProfile(t *testing.T) {
	got := BuildImagePrompt(model.CharacterProfile{})

	want := "A person a historical figure from a past era, , " + PortraitStyleSuffix
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
}

func TestBuildImagePrompt_UnknownGender(t *testing.T) {
	got := BuildImagePrompt(model.CharacterProfile{
		Era:        "고려 시대",
		Gender:     "Female",
		Occupation: "상인",
		Trait:      "Carrying silk",
	})

	if !strings.HasPrefix(got, "A person 상인 from 고려 시대, carrying silk, ") {
		t.Errorf("prompt = %q", got)
	}
}

func TestBuildImagePrompt_Deterministic(t *testing.T) {
	profile := model.CharacterProfile{Era: "조선 후기", Gender: "남성", Occupation: "도공", Trait: "흙 묻은 손"}

	first := BuildImagePrompt(profile)
	for i := 0; i < 5; i++ {
		if got := BuildImagePrompt(profile); got != first {
			t.Fatalf("run %d: prompt = %q, want %q", i, got, first)
		}
	}
}

func TestBuildProfilePrompts(t *testing.T) {
	system := BuildProfileSystemPrompt("홍길동")
	if !strings.Contains(system, "이름: 홍길동") {
		t.Errorf("system prompt does not contain name: %q", system)
	}
	for _, key := range model.ProfileKeys {
		if !strings.Contains(system, `"`+key+`"`) {
			t.Errorf("system prompt does not mention key %q", key)
		}
	}

	if got := BuildProfileUserPrompt("홍길동"); got != "홍길동의 전생 캐릭터를 알려줘." {
		t.Errorf("user prompt = %q", got)
	}
}
