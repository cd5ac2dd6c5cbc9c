// Package similarity provides the default string distance used to compare
// local tags with catalog candidates.
package similarity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// LCS measures distance as one minus the longest common subsequence of the
// normalized strings over the longer length.
type LCS struct{}

// Default is the distance used when the host supplies none.
var Default LCS

// Normalize folds width and case, strips diacritics and punctuation, and
// collapses whitespace.
func Normalize(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	for _, r := range s {
		if !unicode.IsMark(r) {
			b.WriteRune(r)
		}
	}
	s = punctRegex.ReplaceAllString(b.String(), " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(strings.ToLower(s))
}

// Distance returns a value in [0,1]; 0 means equal after normalization.
// Two empty strings are equal; one empty string is maximally distant.
func (LCS) Distance(a, b string) float64 {
	ra, rb := []rune(Normalize(a)), []rune(Normalize(b))
	if string(ra) == string(rb) {
		return 0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 1
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	return 1 - float64(lcs(ra, rb))/float64(longest)
}

func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
