package codeforces

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/benvon/tle-advisor/internal/models"
	"go.uber.org/zap"
)

// MaxSubmissions is the number of most recent submissions requested from user.status
const MaxSubmissions = 10000

// ErrEmptyHandle is returned when no handle was given
var ErrEmptyHandle = errors.New("handle is required")

// UserStatus returns up to count submissions of handle starting at from (1-based), in upstream order
func (c *Client) UserStatus(ctx context.Context, handle string, from, count int) ([]models.Submission, error) {
	if handle == "" {
		return nil, ErrEmptyHandle
	}
	params := url.Values{}
	params.Set("handle", handle)
	params.Set("from", strconv.Itoa(from))
	params.Set("count", strconv.Itoa(count))

	var submissions []models.Submission
	if err := c.call(ctx, "user.status", params, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// SolvedProblems returns the distinct problems handle has solved among its most recent MaxSubmissions submissions
func (c *Client) SolvedProblems(ctx context.Context, handle string) ([]models.Problem, error) {
	submissions, err := c.UserStatus(ctx, handle, 1, MaxSubmissions)
	if err != nil {
		return nil, err
	}

	problems := DistinctSolved(submissions)
	c.logger.Debug("fetched_solved_problems",
		zap.Int("submissions", len(submissions)),
		zap.Int("distinct_solved", len(problems)),
	)
	return problems, nil
}

// DistinctSolved keeps accepted submissions only and collapses them to one problem per (contestId, index).
// The first occurrence wins and the result follows first-seen order.
func DistinctSolved(submissions []models.Submission) []models.Problem {
	seen := make(map[models.ProblemKey]struct{})
	problems := make([]models.Problem, 0)
	for _, sub := range submissions {
		if !sub.Accepted() {
			continue
		}
		key := sub.Problem.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		problems = append(problems, sub.Problem)
	}
	return problems
}
