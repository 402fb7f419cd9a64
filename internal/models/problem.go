package models

import "fmt"

// VerdictAccepted is the verdict Codeforces reports for an accepted submission
const VerdictAccepted = "OK"

// Problem identifies a judge problem
type Problem struct {
	ContestID      int      `json:"contestId,omitempty"`
	ProblemsetName string   `json:"problemsetName,omitempty"`
	Index          string   `json:"index"`
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	Rating         *int     `json:"rating,omitempty"` // nil for unrated problems
	Tags           []string `json:"tags"`
}

// ProblemKey is the identity of a problem. Two submissions with the same key refer to the same problem.
type ProblemKey struct {
	ContestID int
	Index     string
}

// Key returns the identity key of the problem
func (p Problem) Key() ProblemKey {
	return ProblemKey{ContestID: p.ContestID, Index: p.Index}
}

// RatingOrZero returns the rating, treating unrated problems as 0
func (p Problem) RatingOrZero() int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// URL returns the problemset page of the problem
func (p Problem) URL() string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
}

// Submission is a single attempt as reported by user.status
type Submission struct {
	ID                  int64   `json:"id"`
	ContestID           int     `json:"contestId,omitempty"`
	CreationTimeSeconds int64   `json:"creationTimeSeconds"`
	ProgrammingLanguage string  `json:"programmingLanguage,omitempty"`
	Verdict             string  `json:"verdict,omitempty"`
	Problem             Problem `json:"problem"`
}

// Accepted reports whether the submission was accepted
func (s Submission) Accepted() bool {
	return s.Verdict == VerdictAccepted
}
