package curated

import "github.com/benvon/tle-advisor/internal/models"

// DefaultSuggestionsPerTag is the number of curated problems suggested per weak tag
const DefaultSuggestionsPerTag = 3

// Suggest returns up to limit curated problems for every weak tag present in the catalog,
// in weak-topic order. Tags missing from the catalog are skipped.
func (c *Catalog) Suggest(weak []models.WeakTopic, limit int) []models.Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionsPerTag
	}

	suggestions := make([]models.Suggestion, 0)
	if c == nil {
		return suggestions
	}
	for _, topic := range weak {
		list, ok := c.problems[topic.Tag]
		if !ok {
			continue
		}
		n := min(limit, len(list))
		problems := make([]models.CuratedProblem, n)
		copy(problems, list[:n])
		suggestions = append(suggestions, models.Suggestion{Tag: topic.Tag, Problems: problems})
	}
	return suggestions
}
