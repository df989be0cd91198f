package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"api 429", genai.APIError{Code: 429, Message: "slow down"}, true},
		{"wrapped api 429", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), true},
		{"api 500", genai.APIError{Code: 500, Message: "internal"}, false},
		{"quota text", errors.New("Quota exceeded for project"), true},
		{"rate limit text", errors.New("Rate limit reached"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(fmt.Errorf("x: %w", genai.APIError{Code: 403})); got != 403 {
		t.Errorf("StatusCode = %d, want 403", got)
	}
	if got := StatusCode(errors.New("plain")); got != 0 {
		t.Errorf("StatusCode plain = %d, want 0", got)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", ""); err == nil {
		t.Fatal("expected error without API key")
	}
}
