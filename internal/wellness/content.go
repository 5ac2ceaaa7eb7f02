package wellness

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ContentKind   = "wellness_content"
	SchemaVersion = 1
)

//go:embed content.yaml
var builtinContent []byte

// Content is the fixed, client-side material behind the meditation,
// resource library and crisis screens.
type Content struct {
	Kind           string     `yaml:"kind"`
	SchemaVersion  int        `yaml:"schema_version"`
	Meditation     []Step     `yaml:"meditation"`
	Resources      []Resource `yaml:"resources"`
	Helplines      []Helpline `yaml:"helplines"`
	EmergencySteps []string   `yaml:"emergency_steps"`
}

type Helpline struct {
	Country string `yaml:"country"`
	Name    string `yaml:"name"`
	Number  string `yaml:"number"`
}

func LoadContent() (*Content, error) {
	return ParseContent(builtinContent)
}

func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse wellness content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) Validate() error {
	if c.Kind != ContentKind {
		return fmt.Errorf("wellness content kind must be %q", ContentKind)
	}
	if c.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported wellness content schema_version %d", c.SchemaVersion)
	}
	if len(c.Meditation) == 0 {
		return fmt.Errorf("meditation script is empty")
	}
	for i, s := range c.Meditation {
		if s.Seconds <= 0 || strings.TrimSpace(s.Instruction) == "" {
			return fmt.Errorf("meditation step %d is invalid", i)
		}
	}
	for _, r := range c.Resources {
		if r.Kind != KindArticle && r.Kind != KindVideo {
			return fmt.Errorf("resource %d: unknown kind %q", r.ID, r.Kind)
		}
		if r.Title == "" || r.Link == "" {
			return fmt.Errorf("resource %d: title and link are required", r.ID)
		}
	}
	return nil
}
