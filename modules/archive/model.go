package archive

import "brandvision-server/modules/analysis"

// MaxEntries - 보관함 최대 세션 수 (가장 최근 것부터 유지)
const MaxEntries = 20

// Session - 분석 1회분의 전체 결과 (보관함 엔트리)
// Timestamp는 epoch millis, 마지막 변경 시각
type Session struct {
	ID        string            `json:"id"`
	Timestamp int64             `json:"timestamp"`
	URL       string            `json:"url"`
	Data      analysis.Response `json:"data"`
	Images    map[string]string `json:"images"` // conceptID → data URL
}

// Clone - 이미지 맵과 키워드 슬라이스를 복사한 사본 반환
// 컨트롤러의 in-memory 상태와 보관함 엔트리가 서로 오염되지 않도록 함
func (s Session) Clone() Session {
	out := s

	out.Images = make(map[string]string, len(s.Images))
	for k, v := range s.Images {
		out.Images[k] = v
	}

	if s.Data.Analysis.Keywords != nil {
		out.Data.Analysis.Keywords = append([]string(nil), s.Data.Analysis.Keywords...)
	}

	return out
}
