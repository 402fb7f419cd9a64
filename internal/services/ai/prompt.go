package ai

import (
	"fmt"
	"strings"

	"github.com/benvon/tle-advisor/internal/models"
)

const (
	// SystemPrompt frames the model as a coach
	SystemPrompt = "You are a competitive programming coach."

	// NoSuggestion is returned when the model produces no text
	NoSuggestion = "No suggestion generated."

	planRequest = "Suggest a personalized 10-day CP plan with topic focus and rated problems."
)

// BuildStudyPlanPrompt renders the user prompt for req.
// With topic details each weak topic gets its own line with solve count and average rating.
func BuildStudyPlanPrompt(req PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The user with Codeforces handle %q ", req.Handle)

	switch {
	case len(req.Topics) > 0:
		b.WriteString("is weak in these topics:\n")
		for _, topic := range req.Topics {
			b.WriteString(formatTopicLine(topic))
		}
		b.WriteString(planRequest)
	case len(req.WeakTopics) > 0:
		fmt.Fprintf(&b, "is weak in these topics: %s. %s", strings.Join(req.WeakTopics, ", "), planRequest)
	default:
		fmt.Fprintf(&b, "has no clearly weak topics yet. %s", planRequest)
	}

	return b.String()
}

func formatTopicLine(topic models.TopicDetail) string {
	solved := "problems"
	if topic.Count == 1 {
		solved = "problem"
	}
	if topic.AvgRating != nil && *topic.AvgRating > 0 {
		return fmt.Sprintf("- %s: %d %s solved, average rating %.0f\n", topic.Tag, topic.Count, solved, *topic.AvgRating)
	}
	return fmt.Sprintf("- %s: %d %s solved\n", topic.Tag, topic.Count, solved)
}

// TopicDetails converts analysis weak topics into prompt topic details
func TopicDetails(stats models.PerformanceStats) []models.TopicDetail {
	details := make([]models.TopicDetail, 0, len(stats.WeakTopics))
	for _, weak := range stats.WeakTopics {
		detail := models.TopicDetail{Tag: weak.Tag, Count: weak.Count}
		if stat, ok := stats.TagStats.Get(weak.Tag); ok {
			if avg, ok := stat.AverageRating(); ok {
				detail.AvgRating = &avg
			}
		}
		details = append(details, detail)
	}
	return details
}

// completionOrDefault trims the model output, substituting NoSuggestion for empty text
func completionOrDefault(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return NoSuggestion
	}
	return content
}
