package assessment

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tests.yaml
var builtinTests []byte

type entry struct {
	test  Test
	table bandTable
}

// Engine scores questionnaires. It holds no mutable state after construction.
type Engine struct {
	registry map[TestID]entry
	order    []TestID
}

func NewEngine() (*Engine, error) {
	return ParseEngine(builtinTests)
}

// ParseEngine builds an engine from a questionnaire file. Every test must have
// a band table and its questions must add up to the table's maximum.
func ParseEngine(data []byte) (*Engine, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse questionnaires: %w", err)
	}
	if f.Kind != QuestionnaireKind {
		return nil, fmt.Errorf("questionnaires kind must be %q", QuestionnaireKind)
	}
	if f.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported questionnaire schema_version %d", f.SchemaVersion)
	}
	e := &Engine{registry: map[TestID]entry{}}
	for _, t := range f.Tests {
		table, ok := bandTables[t.ID]
		if !ok {
			return nil, fmt.Errorf("test %q has no band table", t.ID)
		}
		if _, dup := e.registry[t.ID]; dup {
			return nil, fmt.Errorf("duplicate test %q", t.ID)
		}
		if err := validateTest(t); err != nil {
			return nil, err
		}
		if got := t.MaxPoints(); got != table.max {
			return nil, fmt.Errorf("test %q: questions add up to %d, want %d", t.ID, got, table.max)
		}
		e.registry[t.ID] = entry{test: t, table: table}
		e.order = append(e.order, t.ID)
	}
	return e, nil
}

func validateTest(t Test) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("test %q: title is required", t.ID)
	}
	if len(t.Questions) == 0 {
		return fmt.Errorf("test %q: no questions", t.ID)
	}
	for i, q := range t.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("test %q question %d: text is required", t.ID, i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("test %q question %d: need at least 2 options", t.ID, i)
		}
		for _, o := range q.Options {
			if o.Points < 0 {
				return fmt.Errorf("test %q question %d: negative points", t.ID, i)
			}
		}
	}
	return nil
}

func (e *Engine) Tests() []Test {
	out := make([]Test, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.registry[id].test)
	}
	return out
}

func (e *Engine) Test(id TestID) (Test, bool) {
	en, ok := e.registry[id]
	return en.test, ok
}

func (e *Engine) ScoreTitle(title string, answers Answers) Result {
	id, ok := ParseTestID(title)
	if !ok {
		return notFound(title)
	}
	return e.Score(id, answers)
}

// Score sums the answers for known questions, clamps the total to the test's
// range and picks the first band whose cutoff the total exceeds.
func (e *Engine) Score(id TestID, answers Answers) Result {
	en, ok := e.registry[id]
	if !ok {
		return notFound(string(id))
	}
	total := 0
	for q := range en.test.Questions {
		total += answers[q]
	}
	total = min(max(total, 0), en.table.max)
	band := en.table.pick(total)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s - Score: %d/%d\n", en.test.Title, band.Name, total, en.table.max)
	if band.Advice != "" {
		b.WriteString(band.Advice)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Disclaimer)

	return Result{
		Test:    id,
		Title:   en.test.Title,
		Found:   true,
		Total:   total,
		Max:     en.table.max,
		Band:    band.Name,
		Message: b.String(),
	}
}

func notFound(title string) Result {
	return Result{
		Test:    TestID(title),
		Title:   title,
		Message: NotFoundMessage + "\n\n" + Disclaimer,
	}
}
