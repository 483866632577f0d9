package analytics

import (
	"sort"

	"tsescan/internal/domain/models"
)

// Rank orders candidates by score descending, ties broken by symbol
// ascending, and caps the list at topN. The input slice is not modified.
func Rank(entries []models.ScanEntry, topN int) []models.ScanEntry {
	ranked := make([]models.ScanEntry, len(entries))
	copy(ranked, entries)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
