package seating

import (
	"strings"
	"unicode"
)

// Shuffler is the random source used for every permutation the allocator
// makes. *math/rand/v2.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Prefix returns the letters of a roll number with everything else removed,
// e.g. "21CS1A05" -> "CSA". Rolls sharing a prefix are treated as one cohort.
func Prefix(rollNo string) string {
	var b strings.Builder
	for _, r := range rollNo {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SeparatePrefixes reorders rolls so that consecutive entries come from
// different prefix groups where possible. Each group is shuffled on its own,
// then one roll is taken from every non-empty group in first-seen order until
// all groups are drained. A dominant group still ends up adjacent to itself
// once the others run out.
func SeparatePrefixes(rolls []string, rng Shuffler) []string {
	var order []string
	groups := make(map[string][]string)
	for _, roll := range rolls {
		p := Prefix(roll)
		if _, seen := groups[p]; !seen {
			order = append(order, p)
		}
		groups[p] = append(groups[p], roll)
	}

	for _, p := range order {
		g := groups[p]
		rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
	}

	separated := make([]string, 0, len(rolls))
	for len(separated) < len(rolls) {
		for _, p := range order {
			g := groups[p]
			if n := len(g); n > 0 {
				separated = append(separated, g[n-1])
				groups[p] = g[:n-1]
			}
		}
	}
	return separated
}
