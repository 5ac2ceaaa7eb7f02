// Package cbt holds the three CBT exercises: Mindful Garden, Resilience
// Quest and Emotion Escape Room. The engines are pure; persistence is the
// caller's job.
package cbt

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	ContentKind   = "cbt_exercises"
	SchemaVersion = 1
)

//go:embed exercises.yaml
var builtinExercises []byte

type Exercises struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	Flowers       []string   `yaml:"flowers"`
	Quest         []Question `yaml:"quest"`
	Rooms         []Room     `yaml:"rooms"`
}

// Question is a multiple choice prompt. An empty Answer accepts any option.
type Question struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
	Answer   string   `yaml:"answer"`
}

func (q Question) accepts(option int) bool {
	if option < 0 || option >= len(q.Options) {
		return false
	}
	return q.Answer == "" || q.Options[option] == q.Answer
}

type Room struct {
	Name     string `yaml:"name"`
	Question `yaml:",inline"`
}

func Load() (*Exercises, error) {
	return Parse(builtinExercises)
}

func Parse(data []byte) (*Exercises, error) {
	var ex Exercises
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("parse cbt exercises: %w", err)
	}
	if err := ex.Validate(); err != nil {
		return nil, err
	}
	return &ex, nil
}

func (e *Exercises) Validate() error {
	if e.Kind != ContentKind {
		return fmt.Errorf("cbt exercises kind must be %q", ContentKind)
	}
	if e.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported cbt exercises schema_version %d", e.SchemaVersion)
	}
	if len(e.Flowers) == 0 {
		return fmt.Errorf("garden needs at least one flower")
	}
	if len(e.Quest) == 0 {
		return fmt.Errorf("quest has no challenges")
	}
	for _, q := range e.Quest {
		if err := validateQuestion(q.ID, q, true); err != nil {
			return err
		}
	}
	if len(e.Rooms) == 0 {
		return fmt.Errorf("escape room has no rooms")
	}
	seen := map[string]bool{}
	for _, r := range e.Rooms {
		if r.Name == "" || seen[r.Name] {
			return fmt.Errorf("room name %q is empty or duplicated", r.Name)
		}
		seen[r.Name] = true
		if err := validateQuestion(r.Name, r.Question, false); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(id string, q Question, needAnswer bool) error {
	if q.Question == "" || len(q.Options) < 2 {
		return fmt.Errorf("%s: question and at least two options are required", id)
	}
	if q.Answer == "" {
		if needAnswer {
			return fmt.Errorf("%s: answer is required", id)
		}
		return nil
	}
	if !slices.Contains(q.Options, q.Answer) {
		return fmt.Errorf("%s: answer %q is not one of the options", id, q.Answer)
	}
	return nil
}
