package generateimage

import "strings"

// ratioMap - 컨셉의 aspect ratio 태그 → 이미지 모델이 지원하는 비율
// 4:5처럼 모델이 지원하지 않는 태그는 가장 가까운 지원 비율로 매핑
var ratioMap = map[string]string{
	"1:1":  "1:1",
	"4:5":  "3:4",
	"9:16": "9:16",
	"16:9": "16:9",
	"3:4":  "3:4",
	"4:3":  "4:3",
}

// ResolveAspectRatio - 임의의 태그를 지원 비율로 변환 (미지원/빈 값은 1:1)
func ResolveAspectRatio(tag string) string {
	if ratio, ok := ratioMap[strings.TrimSpace(tag)]; ok {
		return ratio
	}
	return "1:1"
}
