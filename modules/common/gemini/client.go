package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// NewClient - Gemini API 클라이언트 생성
// baseURL은 프록시/테스트용이며 비어 있으면 기본 엔드포인트 사용
func NewClient(ctx context.Context, apiKey string, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no Gemini API key provided")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Println("✅ [Gemini] Client initialized")
	return client, nil
}

// StatusCode - Gemini API 에러에서 HTTP 상태 코드 추출 (없으면 0)
func StatusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

// IsRateLimitError - 429 Rate Limit 에러인지 확인
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if StatusCode(err) == http.StatusTooManyRequests {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}
