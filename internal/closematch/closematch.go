// Package closematch finds near-misses for an undefined name, backing the
// "did you mean ..." hints spec.md §3 and §9 require of NameNotDefined
// errors. It uses the same bounded edit-distance approach HCL's diagnostic
// suggestions use for identifier typos.
package closematch

import "github.com/agext/levenshtein"

// maxDistance bounds how different a candidate may be from the query and
// still be considered a plausible typo, per §9: "threshold chosen so that a
// one- or two-character typo surfaces a single best candidate."
const maxDistance = 2

// Suggest returns the closest candidate to name within maxDistance edits,
// or "" if none qualifies.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxDistance + 1
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein.Distance(name, c, nil)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
