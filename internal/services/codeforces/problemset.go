package codeforces

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/benvon/tle-advisor/internal/models"
)

// DefaultProblemsetLimit is the maximum number of problems returned by the problemset proxy
const DefaultProblemsetLimit = 25

// ProblemFilter selects problems from the full catalog.
// A NaN bound matches nothing. Empty Tags means any tag matches.
type ProblemFilter struct {
	MinRating float64
	MaxRating float64
	Tags      []string
	Limit     int
}

// Problemset returns the full problem catalog in upstream order
func (c *Client) Problemset(ctx context.Context) ([]models.Problem, error) {
	var result struct {
		Problems []models.Problem `json:"problems"`
	}
	if err := c.call(ctx, "problemset.problems", nil, &result); err != nil {
		return nil, err
	}
	return result.Problems, nil
}

// FilterProblems returns the problems whose rating lies in [MinRating, MaxRating] and which share at
// least one tag with the filter, capped at Limit and in input order. Unrated problems count as rating 0.
func FilterProblems(problems []models.Problem, f ProblemFilter) []models.Problem {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultProblemsetLimit
	}

	wanted := make(map[string]struct{}, len(f.Tags))
	for _, tag := range f.Tags {
		wanted[tag] = struct{}{}
	}

	out := make([]models.Problem, 0, min(limit, len(problems)))
	for _, p := range problems {
		if len(out) >= limit {
			break
		}
		rating := float64(p.RatingOrZero())
		// comparisons against NaN are always false
		if !(rating >= f.MinRating && rating <= f.MaxRating) {
			continue
		}
		if len(wanted) > 0 && !hasAnyTag(p.Tags, wanted) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAnyTag(tags []string, wanted map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := wanted[tag]; ok {
			return true
		}
	}
	return false
}

// ParseRatingBound converts a query value to a rating bound. An empty value is 0;
// anything that is not a number is NaN.
func ParseRatingBound(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	bound, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return bound
}

// ParseTags splits a comma-separated tag list, dropping blank entries
func ParseTags(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
