package rank

import "shiny_stats/internal/domain"

// ApplyFilter keeps the ranked entries whose dominant sentiment and historical
// rating pass the sidebar predicates, renumbering ranks over the survivors.
// An empty result is a normal state, not an error.
func ApplyFilter(entries []domain.RankingEntry, f domain.FilterConfig) []domain.RankingEntry {
	out := make([]domain.RankingEntry, 0, len(entries))
	for _, e := range entries {
		if f.Allows(e.Dominant, e.Rating) {
			e.Rank = len(out) + 1
			out = append(out, e)
		}
	}
	return out
}

// BusinessIDs collects the id set of the filtered entries, used to restrict
// the detailed-review table to the same businesses.
func BusinessIDs(entries []domain.RankingEntry) map[string]bool {
	ids := make(map[string]bool, len(entries))
	for _, e := range entries {
		ids[e.BusinessID] = true
	}
	return ids
}

// FilterReviews keeps the detailed rows belonging to the given business ids.
func FilterReviews(rows []domain.ReviewRow, ids map[string]bool) []domain.ReviewRow {
	out := make([]domain.ReviewRow, 0, len(rows))
	for _, r := range rows {
		if ids[r.BusinessID] {
			out = append(out, r)
		}
	}
	return out
}
