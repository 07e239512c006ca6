package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	tests := []struct {
		name      string
		url       string
		platforms []string
		wantErr   string
	}{
		{"empty url", "", []string{"Instagram"}, "url is required"},
		{"whitespace url", "   ", []string{"Instagram"}, "url is required"},
		{"no platforms", "https://example.com", nil, "at least one platform"},
		{"unknown platform", "https://example.com", []string{"TikTok"}, "unknown platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(ctx, tt.url, "Brand Awareness", tt.platforms)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsValidPlatform(t *testing.T) {
	for _, p := range AllPlatforms {
		assert.True(t, IsValidPlatform(string(p)))
	}
	assert.False(t, IsValidPlatform("TikTok"))
	assert.False(t, IsValidPlatform("instagram"))
	assert.False(t, IsValidPlatform(""))
}

func TestIsValidGoal(t *testing.T) {
	assert.True(t, IsValidGoal("Affiliate Sales"))
	assert.True(t, IsValidGoal("App Installs"))
	assert.False(t, IsValidGoal("World Domination"))
}

func TestParseResponseFullPayload(t *testing.T) {
	raw := []byte(`{
		"analysis": {
			"name": "Acme",
			"identity": "DTC outdoor gear",
			"offerings": ["backpacks", "tents"],
			"audience": "weekend hikers",
			"tone": "adventurous",
			"valueProposition": "durable gear at fair prices",
			"benefits": ["lightweight"],
			"painPoints": ["gear breaks on trail"],
			"marketPosition": "mid-market challenger",
			"emotionalTriggers": ["freedom"],
			"keywords": ["hiking backpack", "ultralight tent"],
			"hooks": ["Built for the long trail"]
		},
		"concepts": [
			{
				"id": "c-1",
				"platform": "Instagram",
				"aspectRatio": "4:5",
				"headline": "Go further",
				"supportingText": "Gear that keeps up",
				"cta": "Shop now",
				"visualPrompt": "hiker on a ridge at golden hour"
			}
		]
	}`)

	resp, err := parseResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Acme", resp.Analysis.Name)
	assert.Equal(t, []string{"hiking backpack", "ultralight tent"}, resp.Analysis.Keywords)
	require.Len(t, resp.Concepts, 1)
	assert.Equal(t, "c-1", resp.Concepts[0].ID)
	assert.Equal(t, "4:5", resp.Concepts[0].AspectRatio)
}

func TestParseResponseToleratesMissingFields(t *testing.T) {
	raw := []byte(`{
		"analysis": {"name": "Acme"},
		"concepts": [
			{"headline": "Go further", "visualPrompt": "a ridge"}
		]
	}`)

	resp, err := parseResponse(raw)
	require.NoError(t, err)

	// 누락된 배열 필드는 빈 슬라이스로 정규화
	assert.NotNil(t, resp.Analysis.Keywords)
	assert.Empty(t, resp.Analysis.Keywords)
	assert.NotNil(t, resp.Analysis.Offerings)

	// 컨셉의 필수 기본값 채움
	require.Len(t, resp.Concepts, 1)
	assert.NotEmpty(t, resp.Concepts[0].ID)
	assert.Equal(t, "Website", resp.Concepts[0].Platform)
	assert.Equal(t, "1:1", resp.Concepts[0].AspectRatio)
}

func TestParseResponseEmptyObject(t *testing.T) {
	resp, err := parseResponse([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, resp.Concepts)
	assert.Empty(t, resp.Concepts)
}

func TestParseResponseIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"analysis": {"name": "Acme", "extra": true}, "concepts": [], "futureField": 1}`)
	resp, err := parseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Analysis.Name)
}

func TestParseResponseMalformed(t *testing.T) {
	_, err := parseResponse([]byte(`not json at all`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestNormalizeDropsBlankKeywords(t *testing.T) {
	resp := &Response{
		Analysis: BrandAnalysis{Keywords: []string{" hiking ", "", "  "}},
	}
	normalize(resp)
	assert.Equal(t, []string{"hiking"}, resp.Analysis.Keywords)
}
