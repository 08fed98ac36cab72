package review

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashID derives a record's stable identifier from its source natural key,
// e.g. "reddit_post_abc123". Identical keys hash to identical IDs across runs
// and processes.
func HashID(naturalKey string) string {
	sum := md5.Sum([]byte(naturalKey))
	return fmt.Sprintf("%x", sum)
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// categoryKeywords pairs a place type with its keyword list. Tables are
// ordered slices so scoring ties resolve to the first category enumerated.
type categoryKeywords struct {
	Type     PlaceType
	Keywords []string
}

// classify scores text against each category's keywords by case-insensitive
// substring match and returns the best-scoring category. A zero score across
// the board falls back to TypePlace; among equal non-zero scores the earlier
// table entry wins.
func classify(text string, table []categoryKeywords) PlaceType {
	lower := strings.ToLower(text)
	best := TypePlace
	bestScore := 0
	for _, ck := range table {
		score := 0
		for _, kw := range ck.Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = ck.Type
		}
	}
	return best
}

// keywordsFor returns the keyword list for one category, or nil when the
// table has no entry for it.
func keywordsFor(table []categoryKeywords, placeType PlaceType) []string {
	for _, ck := range table {
		if ck.Type == placeType {
			return ck.Keywords
		}
	}
	return nil
}
