package recipedict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit recipe ids close to query, best match first.
// Ids containing the query rank ahead of ids that are merely a few edits away;
// ties keep insertion order. Results are memoized until the dictionary changes.
func (d *Dictionary) Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit < 1 {
		return nil
	}

	// held across the memo update so a mutation cannot purge in between
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := fmt.Sprintf("%s\x00%d", query, limit)
	if cached, ok := d.suggestions.Get(key); ok {
		return append([]string(nil), cached...)
	}

	type candidate struct {
		ident string
		score int
	}
	maxDist := max(MinSuggestDistance, len(query)/3)
	var candidates []candidate
	for _, r := range d.list {
		ident := strings.ToLower(r.Ident)
		score := -1
		if strings.Contains(ident, query) {
			score = 0
		} else if dist := levenshtein.ComputeDistance(query, ident); dist <= maxDist {
			score = dist
		}
		if score >= 0 {
			candidates = append(candidates, candidate{ident: r.Ident, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ident
	}
	d.suggestions.Add(key, out)
	return append([]string(nil), out...)
}
