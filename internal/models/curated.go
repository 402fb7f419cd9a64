package models

// CuratedProblem is a hand-picked practice problem
type CuratedProblem struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Link   string `json:"link" yaml:"link" validate:"required,url"`
	Rating int    `json:"rating" yaml:"rating" validate:"gte=0"`
}

// TopicDetail describes a weak topic when asking for a study plan
type TopicDetail struct {
	Tag       string   `json:"tag" validate:"required"`
	Count     int      `json:"count" validate:"gte=0"`
	AvgRating *float64 `json:"avgRating,omitempty"`
}
