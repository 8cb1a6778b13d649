package service

import (
	"strings"
	"unicode"
)

const defaultSimilarityThreshold = 0.8

// AnswerValidator checks typed sentence translations with fuzzy matching.
type AnswerValidator struct {
	threshold float64 // similarity required, 0.0 - 1.0
}

// NewAnswerValidator creates a validator requiring 80% similarity.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{threshold: defaultSimilarityThreshold}
}

// Validate reports whether answer is close enough to expected.
func (v *AnswerValidator) Validate(answer, expected string) bool {
	a := normalizeAnswer(answer)
	e := normalizeAnswer(expected)

	if a == e {
		return true
	}
	if a == "" || e == "" {
		return false
	}

	return similarity(a, e) >= v.threshold
}

// normalizeAnswer lowercases, drops punctuation and Arabic diacritics, and
// collapses whitespace.
func normalizeAnswer(s string) string {
	s = strings.ToLower(s)
	s = normalizeArabic(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

var arabicLetterVariants = map[rune]rune{
	'أ': 'ا', // alef with hamza above
	'إ': 'ا', // alef with hamza below
	'آ': 'ا', // alef with madda
	'ٱ': 'ا', // alef wasla
	'ة': 'ه', // teh marbuta
	'ى': 'ي', // alef maksura
}

// normalizeArabic strips harakat, Quranic annotation marks and tatweel and
// folds alef and teh variants.
func normalizeArabic(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x064B && r <= 0x065F, r == 0x0670, r == 0x0640:
			return -1
		case r >= 0x06D6 && r <= 0x06ED:
			return -1
		}
		if folded, ok := arabicLetterVariants[r]; ok {
			return folded
		}
		return r
	}, s)
}

func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
