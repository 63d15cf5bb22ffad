package catalog

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MaaXYZ/MaaCube/agent/go-service/potential"
	"github.com/rs/zerolog/log"
)

const defaultMaxDistance = 2

// Matcher - OCR text corrector: similar-glyph replacement, then nearest pool
// option by edit distance among options carrying the same numbers
type Matcher struct {
	similar     map[string]string
	maxDistance int
}

// NewMatcher builds a matcher. similar maps misread text to the correct one;
// maxDistance <= 0 uses the default budget.
func NewMatcher(similar map[string]string, maxDistance int) *Matcher {
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistance
	}
	m := &Matcher{similar: make(map[string]string, len(similar)), maxDistance: maxDistance}
	for k, v := range similar {
		if k != "" {
			m.similar[k] = v
		}
	}
	return m
}

// Snap returns the pool option text matches, trying the raw text first and
// the similar-replaced text second. Numbers must agree exactly; ties at the
// best distance leave the text unsnapped.
func (m *Matcher) Snap(text string, pool []string) (string, bool) {
	cleaned := potential.Normalize(text)
	if cleaned == "" || len(pool) == 0 {
		return cleaned, false
	}

	if hit, ok := m.attempt("raw", cleaned, pool); ok {
		return hit, true
	}
	replaced := potential.Normalize(m.normalizeSimilar(cleaned))
	if hit, ok := m.attempt("norm", replaced, pool); ok {
		return hit, true
	}

	log.Debug().Str("ocr", text).Str("cleaned", cleaned).Str("replaced", replaced).Msg("<Catalog> snap miss")
	return cleaned, false
}

func (m *Matcher) attempt(phase, cleaned string, pool []string) (string, bool) {
	for _, p := range pool {
		if p == cleaned {
			return p, true
		}
	}

	digits := digitsOf(cleaned)
	maxEd := 1
	if utf8.RuneCountInString(cleaned) >= 4 {
		maxEd = m.maxDistance
	}
	best, bestDist, tied := "", maxEd+1, false
	for _, p := range pool {
		if digitsOf(p) != digits {
			continue
		}
		d := editDistance(cleaned, p, maxEd)
		switch {
		case d < bestDist:
			best, bestDist, tied = p, d, false
		case d == bestDist && p != best:
			tied = true
		}
	}
	if best == "" || tied {
		return "", false
	}
	log.Debug().Str("phase", phase).Str("cleaned", cleaned).Str("target", best).Int("distance", bestDist).Msg("<Catalog> snap hit")
	return best, true
}

// normalizeSimilar applies replacements longest key first so overlapping
// keys resolve the same way every time.
func (m *Matcher) normalizeSimilar(s string) string {
	if len(m.similar) == 0 {
		return s
	}
	keys := make([]string, 0, len(m.similar))
	for k := range m.similar {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, k := range keys {
		s = strings.ReplaceAll(s, k, m.similar[k])
	}
	return s
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		} else if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Damerau-Levenshtein, capped at max+1
func editDistance(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if abs(la-lb) > max {
		return max + 1
	}
	dp := make([][]int, la+1)
	for i := range dp {
		dp[i] = make([]int, lb+1)
		dp[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		dp[0][j] = j
	}
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+cost)
			}
		}
	}
	if dp[la][lb] > max {
		return max + 1
	}
	return dp[la][lb]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
