package command

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to max vocabulary phrases close to the utterance,
// nearest first. Suggestions are advisory output for observer surfaces;
// Parse never consults them, so they cannot change what an utterance
// resolves to.
func (p *Parser) Suggest(text string, max int) []string {
	text = Normalize(text)
	if text == "" || max <= 0 {
		return nil
	}

	type scored struct {
		phrase string
		dist   int
	}

	seen := make(map[string]bool, len(p.table))
	candidates := make([]scored, 0, len(p.table))
	for _, entry := range p.table {
		phrase := phraseOf(entry.Pattern)
		if phrase == "" || seen[phrase] {
			continue
		}
		seen[phrase] = true

		dist := phraseDistance(text, phrase)
		if dist > distanceLimit(len(phrase)) {
			continue
		}
		candidates = append(candidates, scored{phrase: phrase, dist: dist})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].dist == candidates[j].dist {
			return candidates[i].phrase < candidates[j].phrase
		}
		return candidates[i].dist < candidates[j].dist
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}
	phrases := make([]string, len(candidates))
	for i, c := range candidates {
		phrases[i] = c.phrase
	}
	return phrases
}

// phraseOf extracts the speakable literal prefix of a pattern; the pattern
// "go to line (\d+)" yields "go to line".
func phraseOf(pattern string) string {
	if i := strings.IndexAny(pattern, `(\[^$.*+?|`); i >= 0 {
		pattern = pattern[:i]
	}
	return strings.TrimSpace(pattern)
}

// phraseDistance compares the utterance to a phrase, also trying the
// utterance truncated to phrase length so trailing arguments ("go to lime
// 42") do not drown out a near-miss prefix.
func phraseDistance(text, phrase string) int {
	dist := levenshtein.ComputeDistance(text, phrase)
	runes := []rune(text)
	if n := len([]rune(phrase)); len(runes) > n {
		if d := levenshtein.ComputeDistance(string(runes[:n]), phrase); d < dist {
			dist = d
		}
	}
	return dist
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
