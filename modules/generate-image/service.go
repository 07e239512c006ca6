package generateimage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"

	"brandvision-server/modules/analysis"
	"brandvision-server/modules/common/config"
	"brandvision-server/modules/common/gemini"
	"brandvision-server/modules/common/utils"
)

// ErrNoImage - 응답에 이미지 파트가 하나도 없음 (컨셉 단위 실패)
var ErrNoImage = errors.New("no image generated")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// BuildImagePrompt - 컨셉의 visualPrompt를 이미지 생성 프롬프트로 변환
// 텍스트/로고 삽입 금지를 명시한다 (브랜드 자산 무단 사용 방지)
func BuildImagePrompt(concept analysis.ImageConcept) string {
	return fmt.Sprintf(
		"High-conversion marketing photography/digital art for %s. Focus: %s. NO TEXT, NO LOGOS. Clean, professional lighting, modern aesthetic.",
		concept.Platform, concept.VisualPrompt)
}

// Generate - 컨셉 하나에 대한 이미지 생성, data URL 반환
func (s *Service) Generate(ctx context.Context, concept analysis.ImageConcept) (string, error) {
	cfg := config.GetConfig()

	ctx, cancelFn := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancelFn()

	ratio := ResolveAspectRatio(concept.AspectRatio)
	prompt := BuildImagePrompt(concept)

	log.Printf("🎨 [GenerateImage] Concept %s (%s, ratio %s)", concept.ID, concept.Platform, ratio)

	content := &genai.Content{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}
	result, err := gemini.GenerateContentWithRetry(
		ctx,
		cfg.GeminiAPIKeys,
		cfg.GeminiImageModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: ratio,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini image call failed: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ [GenerateImage] Concept %s: received %d bytes", concept.ID, len(part.InlineData.Data))
				return utils.EncodeDataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}

	return "", ErrNoImage
}
