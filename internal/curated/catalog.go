package curated

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/benvon/tle-advisor/internal/models"
	"github.com/benvon/tle-advisor/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed curated_problems.yaml
var embeddedProblems []byte

// Catalog is the read-only tag → curated problems table.
// It is never mutated after construction and is safe for concurrent reads.
type Catalog struct {
	problems map[string][]models.CuratedProblem
}

// New builds a catalog from a tag → problems map. The input is copied.
func New(problems map[string][]models.CuratedProblem) *Catalog {
	c := &Catalog{problems: make(map[string][]models.CuratedProblem, len(problems))}
	for tag, list := range problems {
		c.problems[tag] = append([]models.CuratedProblem(nil), list...)
	}
	return c
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(embeddedProblems)
}

// LoadFile reads a catalog from a YAML or JSON file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curated problems: %w", err)
	}
	return Parse(data)
}

// Load returns the catalog at path, or the embedded one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]models.CuratedProblem
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse curated problems: %w", err)
	}

	for tag, list := range raw {
		if tag == "" {
			return nil, fmt.Errorf("curated problems contain an empty tag")
		}
		for i := range list {
			if err := validation.Validate.Struct(list[i]); err != nil {
				return nil, fmt.Errorf("invalid curated problem %d for tag %q: %w", i, tag, err)
			}
		}
	}

	return New(raw), nil
}

// Problems returns a copy of the curated list for tag
func (c *Catalog) Problems(tag string) ([]models.CuratedProblem, bool) {
	list, ok := c.problems[tag]
	if !ok {
		return nil, false
	}
	return append([]models.CuratedProblem(nil), list...), true
}

// Tags returns the curated tags in sorted order
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.problems))
	for tag := range c.problems {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Len returns the number of curated tags
func (c *Catalog) Len() int {
	return len(c.problems)
}
