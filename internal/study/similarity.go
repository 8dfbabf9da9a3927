package study

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Similarity is the Dice coefficient of the rune bigram multisets of a and b,
// ignoring whitespace. Inputs shorter than two runes score 1 when equal and 0
// otherwise.
func Similarity(a, b string) float64 {
	ra := []rune(stripSpace(a))
	rb := []rune(stripSpace(b))

	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)-1+len(rb)-1)
}

// normalizeAnswer trims, case folds and composes text for comparison.
func normalizeAnswer(s string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(s)))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
