package analysis

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// systemPrompt - 브랜드 리서치 + 비주얼 컨셉 생성 지시
const systemPrompt = `You are an advanced AI research and creative assistant designed to help with affiliate marketing and brand analysis.
Your task is to analyze the provided URL and perform:
1. Website Research: Extract brand identity, core offerings, target audience, tone, and value proposition.
2. Brand Insights: Summarize market positioning, ideal customer profile, and competitive advantage.
3. SEO Keyword Analysis: Generate a comprehensive list of high-traffic, relevant SEO keywords and long-tail phrases that align with the brand's offerings.
4. Visual Concepts: Design original, high-conversion visual concepts for affiliate marketing.
   - Must not copy brand visuals or logos.
   - Highlight benefits and emotional triggers.
   - Optimized for the target platform's aspect ratios.`

// buildUserPrompt - 분석 요청 본문 생성
func buildUserPrompt(url, goal string, platforms []string) string {
	return fmt.Sprintf(`Website: %s
Primary Goal: %s
Target Platforms: %s

Return a JSON response matching the schema. Focus on SEO-optimized keywords, emotional triggers, and pain points solved.`,
		url, goal, strings.Join(platforms, ", "))
}

// responseSchema - 분석 응답 JSON 스키마
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"analysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":              {Type: genai.TypeString},
					"identity":          {Type: genai.TypeString},
					"offerings":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"audience":          {Type: genai.TypeString},
					"tone":              {Type: genai.TypeString},
					"valueProposition":  {Type: genai.TypeString},
					"benefits":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"painPoints":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"marketPosition":    {Type: genai.TypeString},
					"emotionalTriggers": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"keywords": {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: "List of high-value SEO keywords",
					},
					"hooks": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{
					"name", "identity", "offerings", "audience", "tone", "valueProposition",
					"benefits", "painPoints", "marketPosition", "emotionalTriggers", "keywords", "hooks",
				},
			},
			"concepts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":             {Type: genai.TypeString},
						"platform":       {Type: genai.TypeString},
						"aspectRatio":    {Type: genai.TypeString, Description: "Aspect ratio like 1:1, 9:16, or 16:9"},
						"headline":       {Type: genai.TypeString},
						"supportingText": {Type: genai.TypeString},
						"cta":            {Type: genai.TypeString},
						"visualPrompt":   {Type: genai.TypeString, Description: "Detailed AI image generation prompt for an original scene (no text/logos)"},
					},
					Required: []string{"id", "platform", "aspectRatio", "headline", "supportingText", "cta", "visualPrompt"},
				},
			},
		},
		Required: []string{"analysis", "concepts"},
	}
}
