package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"brandvision-server/modules/common/config"
	"brandvision-server/modules/common/fallback"
)

type Service struct {
	client *genai.Client
}

func NewService(ctx context.Context) (*Service, error) {
	cfg := config.GetConfig()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.PrimaryAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}

	log.Println("✅ [Analysis] Genai client initialized")
	return &Service{client: client}, nil
}

// Analyze - URL과 캠페인 목표로 브랜드 분석 + 컨셉 생성
// 자동 재시도 없음: 전송/파싱 실패는 그대로 반환한다.
func (s *Service) Analyze(ctx context.Context, url, goal string, platforms []string) (*Response, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("at least one platform is required")
	}
	for _, p := range platforms {
		if !IsValidPlatform(p) {
			return nil, fmt.Errorf("unknown platform: %s", p)
		}
	}

	cfg := config.GetConfig()
	ctx, cancelFn := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancelFn()

	log.Printf("🔍 [Analysis] Analyzing %s (goal: %s, platforms: %d)", url, goal, len(platforms))

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(buildUserPrompt(url, goal, platforms)),
		},
	}
	result, err := s.client.Models.GenerateContent(
		ctx,
		cfg.GeminiModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{genai.NewPartFromText(systemPrompt)},
			},
			Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini analysis call failed: %w", err)
	}

	raw, err := responseText(result)
	if err != nil {
		return nil, err
	}

	resp, err := parseResponse([]byte(raw))
	if err != nil {
		return nil, err
	}

	resp.Sources = extractSources(result)

	log.Printf("✅ [Analysis] %s analyzed: %d concepts, %d keywords, %d sources",
		resp.Analysis.Name, len(resp.Concepts), len(resp.Analysis.Keywords), len(resp.Sources))

	return resp, nil
}

// responseText - 응답 candidate에서 텍스트 파트 추출
func responseText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty analysis response")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in analysis response")
	}
	return sb.String(), nil
}

// parseResponse - 분석 JSON 파싱 + 부분 결손 허용 정규화
func parseResponse(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	normalize(&resp)
	return &resp, nil
}

// normalize - 모델이 일부 필드를 빼먹어도 다운스트림이 안전하도록 채움
func normalize(resp *Response) {
	a := &resp.Analysis
	a.Offerings = fallback.SafeList(a.Offerings)
	a.Benefits = fallback.SafeList(a.Benefits)
	a.PainPoints = fallback.SafeList(a.PainPoints)
	a.EmotionalTriggers = fallback.SafeList(a.EmotionalTriggers)
	a.Keywords = fallback.SafeList(a.Keywords)
	a.Hooks = fallback.SafeList(a.Hooks)

	if resp.Concepts == nil {
		resp.Concepts = []ImageConcept{}
	}
	for i := range resp.Concepts {
		concept := &resp.Concepts[i]
		if strings.TrimSpace(concept.ID) == "" {
			concept.ID = uuid.New().String()
		}
		concept.Platform = fallback.SafeString(concept.Platform, string(PlatformWebsite))
		concept.AspectRatio = fallback.SafeAspectRatio(concept.AspectRatio)
	}
}

// extractSources - grounding 메타데이터에서 출처 인용 추출
// URI가 없거나 placeholder("#")인 엔트리는 버린다.
func extractSources(result *genai.GenerateContentResponse) []Source {
	if len(result.Candidates) == 0 {
		return nil
	}

	gm := result.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	var sources []Source
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" || uri == "#" {
			continue
		}
		sources = append(sources, Source{
			Title: fallback.SafeString(chunk.Web.Title, "External Source"),
			URI:   uri,
		})
	}
	return sources
}
