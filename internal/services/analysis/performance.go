package analysis

import "github.com/benvon/tle-advisor/internal/models"

// DefaultWeakThreshold is the solve count below which a tag is considered weak
const DefaultWeakThreshold = 5

// AnalyzePerformance aggregates solved problems by tag and flags tags solved fewer than threshold times.
// A problem contributes to every tag it carries; problems without tags contribute nothing.
// Tag order is first-occurrence order and the weak list follows it.
func AnalyzePerformance(problems []models.Problem, threshold int) models.PerformanceStats {
	if threshold <= 0 {
		threshold = DefaultWeakThreshold
	}

	tagStats := models.NewTagStats()
	for _, problem := range problems {
		for _, tag := range problem.Tags {
			tagStats.Add(tag, problem.Rating)
		}
	}

	weak := make([]models.WeakTopic, 0)
	for _, tag := range tagStats.Tags() {
		stat, _ := tagStats.Get(tag)
		if stat.Count < threshold {
			weak = append(weak, models.WeakTopic{Tag: tag, Count: stat.Count})
		}
	}

	return models.PerformanceStats{
		TagStats:   tagStats,
		WeakTopics: weak,
	}
}
