package pastlife

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pastlife-server/modules/common/fallback"
)

// 고정 이미지 파라미터
const (
	ImageSize    = "1024x1024"
	ImageQuality = "standard"
	ImageCount   = 1
)

// ImageRequest - 이미지 생성 요청 {모델, 프롬프트, 개수, 해상도, 품질}
type ImageRequest struct {
	Model   string
	Prompt  string
	N       int
	Size    string
	Quality string
}

// ImageGenerator - 이미지 생성 서비스 (OpenAI / Gemini)
// 결과마다 이미지 참조(URL 또는 data URL)를 돌려준다
type ImageGenerator interface {
	GenerateImages(ctx context.Context, req ImageRequest) ([]string, error)
}

// ImageRequester - 프롬프트로 초상화 1장을 요청
type ImageRequester struct {
	images  ImageGenerator
	model   string
	timeout time.Duration
}

// NewImageRequester - ImageRequester 생성
func NewImageRequester(images ImageGenerator, model string, timeout time.Duration) *ImageRequester {
	return &ImageRequester{
		images:  images,
		model:   model,
		timeout: timeout,
	}
}

// Request - 이미지 서비스 1회 호출, 첫 번째 결과의 URL 반환
func (r *ImageRequester) Request(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("image prompt is empty")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	log.Printf("📤 [PastLife] Requesting portrait (model: %s, size: %s): %s", r.model, ImageSize, fallback.Truncate(prompt, 60))
	start := time.Now()

	urls, err := r.images.GenerateImages(ctx, ImageRequest{
		Model:   r.model,
		Prompt:  prompt,
		N:       ImageCount,
		Size:    ImageSize,
		Quality: ImageQuality,
	})
	if err != nil {
		log.Printf("❌ [PastLife] Image generation failed after %s: %v", time.Since(start), err)
		return "", wrapServiceError(ctx, ServiceImage, err, classifyProviderError)
	}
	if len(urls) == 0 || urls[0] == "" {
		log.Printf("❌ [PastLife] Image service returned no result")
		return "", &ServiceError{Service: ServiceImage, Err: errors.New("no image in response")}
	}

	log.Printf("✅ [PastLife] Portrait generated in %s", time.Since(start))
	return urls[0], nil
}
