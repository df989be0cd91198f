package pastlife

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"pastlife-server/modules/common/model"
	"pastlife-server/modules/common/utils"
)

// GeminiBackend - Gemini GenerateContent 기반 텍스트/이미지 생성
type GeminiBackend struct {
	client      *genai.Client
	webpQuality int
}

// NewGeminiBackend - webpQuality가 0보다 크면 생성된 이미지를 WebP로 다시 인코딩
func NewGeminiBackend(client *genai.Client, webpQuality int) *GeminiBackend {
	return &GeminiBackend{
		client:      client,
		webpQuality: webpQuality,
	}
}

// profileSchema - 다섯 개 키를 모두 요구하는 JSON 스키마
func profileSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(model.ProfileKeys))
	for _, key := range model.ProfileKeys {
		props[key] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         model.ProfileKeys,
		PropertyOrdering: model.ProfileKeys,
	}
}

// CompleteText - system 메시지는 SystemInstruction으로, 나머지는 contents로 보냄
func (b *GeminiBackend) CompleteText(ctx context.Context, req TextRequest) (string, error) {
	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}

	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   profileSchema(),
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	res, err := b.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := candidateText(res)
	if text == "" {
		// 부적절한 입력으로 차단되면 후보가 비어 있음
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// GenerateImages - 1:1 비율 이미지를 생성해서 data URL로 반환
func (b *GeminiBackend) GenerateImages(ctx context.Context, req ImageRequest) ([]string, error) {
	content := &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)},
	}

	res, err := b.client.Models.GenerateContent(
		ctx,
		req.Model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: "1:1",
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate image: %w", err)
	}

	var refs []string
	for _, candidate := range res.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [Gemini] Image generated: %d bytes", len(part.InlineData.Data))
				refs = append(refs, b.imageRef(part.InlineData.MIMEType, part.InlineData.Data))
			}
		}
	}
	if len(refs) > req.N && req.N > 0 {
		refs = refs[:req.N]
	}
	return refs, nil
}

func candidateText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// imageRef - 인라인 이미지를 data URL로, 변환 실패 시 원본 포맷 유지
func (b *GeminiBackend) imageRef(mimeType string, data []byte) string {
	if b.webpQuality > 0 {
		webpData, err := utils.ConvertToWebP(data, b.webpQuality)
		if err == nil {
			return utils.DataURL(utils.MimeWebP, webpData)
		}
		log.Printf("⚠️ [Gemini] WebP conversion failed, using original: %v", err)
	}
	return utils.DataURL(mimeType, data)
}
