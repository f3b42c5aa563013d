// Package catalog loads the static barrier catalog and age-group language guidance.
// Both are parsed once and shared read-only across requests.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
)

//go:embed barriers.yaml
var barriersYAML []byte

//go:embed age_groups.yaml
var ageGroupsYAML []byte

type Catalog struct {
	barriers []coach.StudentBarrier
	byID     map[string]int
}

type barrierFile struct {
	Barriers []coach.StudentBarrier `yaml:"barriers"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(barriersYAML)
	})
	return defaultCat, defaultErr
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read barrier catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f barrierFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse barrier catalog: %w", err)
	}
	c := &Catalog{barriers: f.Barriers, byID: make(map[string]int, len(f.Barriers))}
	for i, b := range f.Barriers {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return nil, fmt.Errorf("barrier catalog entry %d has no id", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("barrier catalog: duplicate id %q", id)
		}
		for _, l := range b.EffectiveLevers {
			if len(l.Steps) == 0 {
				return nil, fmt.Errorf("barrier catalog: lever %q of %q has no steps", l.Name, id)
			}
		}
		f.Barriers[i].ID = id
		c.byID[id] = i
	}
	return c, nil
}

// Lookup returns the catalog entry for id. The pointer aliases shared catalog
// memory and must not be mutated.
func (c *Catalog) Lookup(id string) (*coach.StudentBarrier, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.barriers[i], true
}

func (c *Catalog) All() []coach.StudentBarrier {
	if c == nil {
		return nil
	}
	out := make([]coach.StudentBarrier, len(c.barriers))
	copy(out, c.barriers)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.barriers)
}

// AgeGroup is the language guidance for a developmental stage.
type AgeGroup struct {
	Name                string `yaml:"name"`
	MinAge              int    `yaml:"min_age"`
	MaxAge              int    `yaml:"max_age"`
	MaxWordsPerSentence int    `yaml:"max_words_per_sentence"`
}

var (
	ageOnce   sync.Once
	ageGroups []AgeGroup
	ageErr    error
)

// AgeGroups returns the embedded age-group table, ordered by age.
func AgeGroups() ([]AgeGroup, error) {
	ageOnce.Do(func() {
		var f struct {
			AgeGroups []AgeGroup `yaml:"age_groups"`
		}
		if err := yaml.Unmarshal(ageGroupsYAML, &f); err != nil {
			ageErr = fmt.Errorf("parse age groups: %w", err)
			return
		}
		ageGroups = f.AgeGroups
	})
	return ageGroups, ageErr
}
