package analysis

// Platform - 광고를 생성할 수 있는 플랫폼
type Platform string

const (
	PlatformInstagram   Platform = "Instagram"
	PlatformFacebookAds Platform = "Facebook Ads"
	PlatformGoogleAds   Platform = "Google Ads"
	PlatformLinkedIn    Platform = "LinkedIn"
	PlatformPinterest   Platform = "Pinterest"
	PlatformYouTube     Platform = "YouTube"
	PlatformWebsite     Platform = "Website"
)

// AllPlatforms - 지원 플랫폼 전체 (7종)
var AllPlatforms = []Platform{
	PlatformInstagram,
	PlatformFacebookAds,
	PlatformGoogleAds,
	PlatformLinkedIn,
	PlatformPinterest,
	PlatformYouTube,
	PlatformWebsite,
}

// AllGoals - 캠페인 목표 선택지
var AllGoals = []string{
	"Affiliate Sales",
	"Brand Awareness",
	"Lead Generation",
	"App Installs",
}

// IsValidPlatform - 플랫폼 이름 검증
func IsValidPlatform(name string) bool {
	for _, p := range AllPlatforms {
		if string(p) == name {
			return true
		}
	}
	return false
}

// IsValidGoal - 캠페인 목표 검증
func IsValidGoal(goal string) bool {
	for _, g := range AllGoals {
		if g == goal {
			return true
		}
	}
	return false
}

// BrandAnalysis - 브랜드 리서치 결과
// Keywords는 사용자가 이후에 편집할 수 있음
type BrandAnalysis struct {
	Name              string   `json:"name"`
	Identity          string   `json:"identity"`
	Offerings         []string `json:"offerings"`
	Audience          string   `json:"audience"`
	Tone              string   `json:"tone"`
	ValueProposition  string   `json:"valueProposition"`
	Benefits          []string `json:"benefits"`
	PainPoints        []string `json:"painPoints"`
	MarketPosition    string   `json:"marketPosition"`
	EmotionalTriggers []string `json:"emotionalTriggers"`
	Keywords          []string `json:"keywords"`
	Hooks             []string `json:"hooks"`
}

// ImageConcept - 플랫폼별 광고 이미지 컨셉
type ImageConcept struct {
	ID             string `json:"id"`
	Platform       string `json:"platform"`
	AspectRatio    string `json:"aspectRatio"`
	Headline       string `json:"headline"`
	SupportingText string `json:"supportingText"`
	CTA            string `json:"cta"`
	VisualPrompt   string `json:"visualPrompt"`
}

// Source - 검색 grounding에서 인용된 출처
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Response - 분석 1회분의 전체 응답
type Response struct {
	Analysis BrandAnalysis  `json:"analysis"`
	Concepts []ImageConcept `json:"concepts"`
	Sources  []Source       `json:"sources,omitempty"`
}
