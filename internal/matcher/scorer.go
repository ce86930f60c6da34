package matcher

import "unicode"

// Weights tunes the fuzzy scorer. Higher scores rank first.
type Weights struct {
	Base                 int
	Consecutive          int
	WordBoundary         int
	Prefix               int
	ExactPrefix          int
	Exact                int
	GapPenalty           int
	LeadingPenalty       int
	LengthBonusThreshold int
}

// DefaultWeights returns the weights used by New.
func DefaultWeights() Weights {
	return Weights{
		Base:                 100,
		Consecutive:          20,
		WordBoundary:         15,
		Prefix:               25,
		ExactPrefix:          50,
		Exact:                1000,
		GapPenalty:           2,
		LeadingPenalty:       1,
		LengthBonusThreshold: 20,
	}
}

// locate finds the rune positions of query inside text. A literal occurrence is
// preferred (first one on a word boundary, else the first one); otherwise the
// query is matched as a greedy left-to-right subsequence. nil means no match.
func locate(query, lower, original []rune) []int {
	if len(query) == 0 || len(query) > len(lower) {
		return nil
	}

	first := -1
	for start := 0; start+len(query) <= len(lower); start++ {
		if !hasPrefixAt(lower, query, start) {
			continue
		}
		if isWordBoundary(original, start) {
			first = start
			break
		}
		if first < 0 {
			first = start
		}
	}
	if first >= 0 {
		positions := make([]int, len(query))
		for i := range query {
			positions[i] = first + i
		}
		return positions
	}

	positions := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			positions = append(positions, i)
			qi++
		}
	}
	if qi != len(query) {
		return nil
	}
	return positions
}

func hasPrefixAt(text, query []rune, start int) bool {
	for i, r := range query {
		if text[start+i] != r {
			return false
		}
	}
	return true
}

// score rates a located match. exactAllowed gates the full-equality bonus so
// that only name fields can claim it.
func (w Weights) score(query, lower, original []rune, positions []int, exactAllowed bool) int {
	if len(positions) == 0 {
		return 0
	}

	score := w.Base

	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			score += w.Consecutive
		}
	}

	for _, idx := range positions {
		if isWordBoundary(original, idx) {
			score += w.WordBoundary
		}
	}

	if positions[0] == 0 {
		score += w.Prefix
		if hasPrefixAt(lower, query, 0) {
			score += w.ExactPrefix
		}
	}

	if len(positions) > 1 {
		if gap := positions[len(positions)-1] - positions[0] - len(positions) + 1; gap > 0 {
			score -= gap * w.GapPenalty
		}
	}

	score -= positions[0] * w.LeadingPenalty

	if len(lower) < w.LengthBonusThreshold {
		score += w.LengthBonusThreshold - len(lower)
	}

	if exactAllowed && len(lower) == len(query) && hasPrefixAt(lower, query, 0) {
		score += w.Exact
	}

	if score < 1 {
		score = 1
	}
	return score
}

// isWordBoundary checks if the rune at idx starts a word.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}

	prev, curr := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}
