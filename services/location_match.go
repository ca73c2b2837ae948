package services

import (
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// locationMatchThreshold là độ tương đồng tối thiểu để chuẩn hóa địa điểm
const locationMatchThreshold = 0.8

// LocationMatcher đưa địa điểm người dùng gõ về tên chuẩn trong danh sách
type LocationMatcher struct {
	canonical map[string]string
	matcher   *closestmatch.ClosestMatch
}

func NewLocationMatcher(locations []string) *LocationMatcher {
	canonical := make(map[string]string, len(locations))
	keys := make([]string, 0, len(locations))
	for _, loc := range locations {
		key := normalizeInput(loc)
		if key == "" {
			continue
		}
		if _, ok := canonical[key]; !ok {
			keys = append(keys, key)
		}
		canonical[key] = loc
	}
	return &LocationMatcher{
		canonical: canonical,
		matcher:   closestmatch.New(keys, []int{2, 3}),
	}
}

// Canonicalize trả về tên chuẩn khi đủ giống, ngược lại giữ nguyên text đã trim
func (m *LocationMatcher) Canonicalize(input string) string {
	trimmed := strings.TrimSpace(input)
	query := normalizeInput(trimmed)
	if query == "" {
		return trimmed
	}
	if loc, ok := m.canonical[query]; ok {
		return loc
	}

	closest := m.matcher.Closest(query)
	if closest == "" {
		return trimmed
	}
	if calculateSimilarity(query, closest) >= locationMatchThreshold {
		return m.canonical[closest]
	}
	return trimmed
}

func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	maxLen := float64(len(ra))
	if float64(len(rb)) > maxLen {
		maxLen = float64(len(rb))
	}

	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/maxLen
}
