package pastlife

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"pastlife-server/modules/common/config"
	"pastlife-server/modules/common/gemini"
)

// NewServiceFromConfig - 설정에 따라 백엔드를 고르고 Service를 조립
// 자격 증명은 여기서 각 컴포넌트에 명시적으로 전달된다
func NewServiceFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	var openaiBackend *OpenAIBackend
	var geminiBackend *GeminiBackend

	if cfg.TextProvider == config.ProviderOpenAI || cfg.ImageProvider == config.ProviderOpenAI {
		openaiBackend = NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}
	if cfg.TextProvider == config.ProviderGemini || cfg.ImageProvider == config.ProviderGemini {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			return nil, err
		}
		geminiBackend = NewGeminiBackend(client, cfg.GeminiWebPQuality)
	}

	var text TextGenerator
	textModel := cfg.TextModel
	switch cfg.TextProvider {
	case config.ProviderOpenAI:
		text = openaiBackend
	case config.ProviderGemini:
		text = geminiBackend
		textModel = cfg.GeminiTextModel
	default:
		return nil, fmt.Errorf("unknown text provider: %s", cfg.TextProvider)
	}

	var images ImageGenerator
	imageModel := cfg.ImageModel
	switch cfg.ImageProvider {
	case config.ProviderOpenAI:
		images = openaiBackend
	case config.ProviderGemini:
		images = geminiBackend
		imageModel = cfg.GeminiImageModel
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.ImageProvider)
	}

	log.Printf("✅ [PastLife] Service initialized (text: %s/%s, image: %s/%s)",
		cfg.TextProvider, textModel, cfg.ImageProvider, imageModel)

	return NewService(
		NewProfileGenerator(text, textModel, cfg.TextTemperature, cfg.ProfileTimeout),
		NewImageRequester(images, imageModel, cfg.ImageTimeout),
		cfg.ShareURL,
	), nil
}

// classifyProviderError - 백엔드 에러에서 상태 코드와 한도 초과 여부 추출
func classifyProviderError(err error) (int, bool) {
	status := openaiStatus(err)
	if status == 0 {
		status = gemini.StatusCode(err)
	}
	if status == http.StatusTooManyRequests {
		return status, true
	}
	return status, gemini.IsRateLimitError(err)
}
