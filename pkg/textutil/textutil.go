package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Closest returns the candidate most similar to name and its similarity
// (0 to 1), the comparison is done on normalized names.
func Closest(name string, candidates []string) (string, float64) {
	normalized := NormalizeName(name)

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(normalized, NormalizeName(c), false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best, bestScore
}

// Suggest returns the closest candidate if it is similar enough to be worth
// proposing as a "did you mean", otherwise "".
func Suggest(name string, candidates []string) string {
	best, score := Closest(name, candidates)
	if score < 0.8 {
		return ""
	}
	return best
}
