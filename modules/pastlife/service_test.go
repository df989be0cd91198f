package pastlife

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestService_Draw(t *testing.T) {
	text := &fakeText{response: aliceResponse}
	images := &fakeImages{urls: []string{aliceImageURL}}
	s := newTestService(text, images)

	result, err := s.Draw(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if text.calls != 1 || images.calls != 1 {
		t.Errorf("calls = text %d, image %d, want 1 and 1", text.calls, images.calls)
	}
	if result.Name != "Alice" {
		t.Errorf("Name = %q", result.Name)
	}
	if result.ImageURL != aliceImageURL {
		t.Errorf("ImageURL = %q, want %q", result.ImageURL, aliceImageURL)
	}
	if !strings.HasPrefix(result.ImagePrompt, "A female 궁중 화가 from 18세기 프랑스, holding a paintbrush, ") {
		t.Errorf("ImagePrompt = %q", result.ImagePrompt)
	}
	if images.last.Prompt != result.ImagePrompt {
		t.Errorf("image request prompt = %q, want %q", images.last.Prompt, result.ImagePrompt)
	}
	if result.ShareURL != "https://pastlife.streamlit.app" {
		t.Errorf("ShareURL = %q", result.ShareURL)
	}
}

func TestService_Draw_EmptyName(t *testing.T) {
	text := &fakeText{response: aliceResponse}
	images := &fakeImages{urls: []string{aliceImageURL}}
	s := newTestService(text, images)

	for _, name := range []string{"", "   "} {
		_, err := s.Draw(context.Background(), name)
		if ErrorKind(err) != KindEmptyInput {
			t.Errorf("Draw(%q) kind = %q, want %q", name, ErrorKind(err), KindEmptyInput)
		}
	}
	if text.calls != 0 || images.calls != 0 {
		t.Errorf("calls = text %d, image %d, want none", text.calls, images.calls)
	}
}

func TestService_Draw_ParseError(t *testing.T) {
	text := &fakeText{response: "not json"}
	images := &fakeImages{urls: []string{aliceImageURL}}
	s := newTestService(text, images)

	_, err := s.Draw(context.Background(), "Alice")

	if ErrorKind(err) != KindParse {
		t.Fatalf("kind = %q, want %q (err: %v)", ErrorKind(err), KindParse, err)
	}
	if RawResponse(err) != "not json" {
		t.Errorf("RawResponse = %q", RawResponse(err))
	}
	if images.calls != 0 {
		t.Errorf("image calls = %d, want 0", images.calls)
	}
}

func TestService_Draw_ImageFailure(t *testing.T) {
	text := &fakeText{response: aliceResponse}
	images := &fakeImages{err: errors.New("status 429: rate limit exceeded")}
	s := newTestService(text, images)

	_, err := s.Draw(context.Background(), "Alice")

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *ServiceError", err)
	}
	if se.Service != ServiceImage || !se.RateLimited {
		t.Errorf("ServiceError = %+v", se)
	}
}

func TestService_Draw_Observer(t *testing.T) {
	tests := []struct {
		name      string
		text      *fakeText
		images    *fakeImages
		input     string
		wantFinal State
		wantSteps int
	}{
		{"success", &fakeText{response: aliceResponse}, &fakeImages{urls: []string{aliceImageURL}}, "Alice", StateRendering, 5},
		{"empty name", &fakeText{}, &fakeImages{}, "", StateIdle, 2},
		{"profile failure", &fakeText{response: "{}"}, &fakeImages{}, "Alice", StateIdle, 3},
		{"image failure", &fakeText{response: aliceResponse}, &fakeImages{}, "Alice", StateIdle, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var states []State
			obs := ObserverFunc(func(from, to State, ev Event) {
				states = append(states, to)
			})

			newTestService(tt.text, tt.images).Draw(context.Background(), tt.input, obs)

			if len(states) != tt.wantSteps {
				t.Fatalf("states = %v, want %d transitions", states, tt.wantSteps)
			}
			if states[len(states)-1] != tt.wantFinal {
				t.Errorf("final state = %s, want %s", states[len(states)-1], tt.wantFinal)
			}
		})
	}
}

func TestService_Draw_KoreanProfile(t *testing.T) {
	text := &fakeText{response: `{"시대":"18세기 프랑스","성별":"여성","직업":"화가","특징":"이젤 앞에 서 있는 모습","성격 키워드":"차분함"}`}
	images := &fakeImages{urls: []string{aliceImageURL}}
	s := newTestService(text, images)

	result, err := s.Draw(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	want := "A female 화가 from 18세기 프랑스, 이젤 앞에 서 있는 모습, posed for a formal portrait"
	if !strings.HasPrefix(result.ImagePrompt, want) {
		t.Errorf("ImagePrompt = %q, want prefix %q", result.ImagePrompt, want)
	}
	p := result.Profile
	if p.Era != "18세기 프랑스" || p.Occupation != "화가" || p.Trait != "이젤 앞에 서 있는 모습" || p.Personality != "차분함" {
		t.Errorf("profile = %+v", p)
	}
}
