package models

import (
	"bytes"
	"encoding/json"
)

// TagStat is the aggregate for a single tag across a user's solved problems
type TagStat struct {
	Count     int   `json:"count"`     // Distinct solved problems carrying the tag
	RatingSum int   `json:"ratingSum"` // Sum of Ratings
	Ratings   []int `json:"ratings"`   // Ratings of the rated problems only, so len(Ratings) <= Count
}

// AverageRating returns the mean rating of the rated problems. ok is false when none were rated.
func (s TagStat) AverageRating() (avg float64, ok bool) {
	if len(s.Ratings) == 0 {
		return 0, false
	}
	return float64(s.RatingSum) / float64(len(s.Ratings)), true
}

// TagStats maps tag to TagStat and remembers the order in which tags were first seen.
// It encodes to a JSON object whose keys follow that order.
type TagStats struct {
	order []string
	stats map[string]*TagStat
}

func (s *TagStat) clone() TagStat {
	out := *s
	out.Ratings = append([]int{}, s.Ratings...)
	return out
}

// NewTagStats returns an empty TagStats
func NewTagStats() TagStats {
	return TagStats{stats: make(map[string]*TagStat)}
}

// Add counts one solved problem for tag, recording its rating when present
func (s *TagStats) Add(tag string, rating *int) {
	if s.stats == nil {
		s.stats = make(map[string]*TagStat)
	}
	stat, ok := s.stats[tag]
	if !ok {
		stat = &TagStat{Ratings: []int{}}
		s.stats[tag] = stat
		s.order = append(s.order, tag)
	}
	stat.Count++
	if rating != nil {
		stat.RatingSum += *rating
		stat.Ratings = append(stat.Ratings, *rating)
	}
}

// Get returns the stat for tag
func (s TagStats) Get(tag string) (TagStat, bool) {
	stat, ok := s.stats[tag]
	if !ok {
		return TagStat{}, false
	}
	return stat.clone(), true
}

// Tags returns the tags in first-seen order
func (s TagStats) Tags() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct tags
func (s TagStats) Len() int {
	return len(s.order)
}

// Map returns an unordered copy of the stats
func (s TagStats) Map() map[string]TagStat {
	out := make(map[string]TagStat, len(s.order))
	for _, tag := range s.order {
		out[tag] = s.stats[tag].clone()
	}
	return out
}

// MarshalJSON encodes the stats as an object keyed by tag in first-seen order
func (s TagStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tag)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.stats[tag])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WeakTopic is a tag whose solve count fell below the weak threshold
type WeakTopic struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PerformanceStats is the result of aggregating solved problems by tag
type PerformanceStats struct {
	TagStats   TagStats    `json:"tagStats"`
	WeakTopics []WeakTopic `json:"weakTopics"`
}

// Suggestion groups curated practice problems for one weak tag
type Suggestion struct {
	Tag      string           `json:"tag"`
	Problems []CuratedProblem `json:"problems"`
}

// AnalysisResult is the full response of an analysis request
type AnalysisResult struct {
	Handle      string           `json:"handle"`
	Stats       PerformanceStats `json:"stats"`
	Suggestions []Suggestion     `json:"suggestions"`
}
