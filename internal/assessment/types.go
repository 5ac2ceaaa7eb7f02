package assessment

import "strings"

const (
	QuestionnaireKind = "questionnaires"
	SchemaVersion     = 1
)

// Disclaimer is appended to every result message.
const Disclaimer = "These results are not meant to be a diagnosis. You can meet with a doctor or therapist to get a diagnosis and/or access therapy or medications. Sharing these results with someone you trust can be a great place to start."

const NotFoundMessage = "Test title not found"

type TestID string

const (
	Depression TestID = "depression"
	Anxiety    TestID = "anxiety"
)

// ParseTestID accepts ids and display titles such as "Depression Test".
func ParseTestID(title string) (TestID, bool) {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.TrimSpace(strings.TrimSuffix(t, "test"))
	switch TestID(t) {
	case Depression:
		return Depression, true
	case Anxiety:
		return Anxiety, true
	default:
		return "", false
	}
}

type File struct {
	Kind          string `yaml:"kind"`
	SchemaVersion int    `yaml:"schema_version"`
	Tests         []Test `yaml:"tests"`
}

type Test struct {
	ID        TestID     `yaml:"id"`
	Title     string     `yaml:"title"`
	Prompt    string     `yaml:"prompt"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Text    string   `yaml:"text"`
	Options []Option `yaml:"options"`
}

type Option struct {
	Text   string `yaml:"text"`
	Points int    `yaml:"points"`
}

func (q Question) MaxPoints() int {
	best := 0
	for _, o := range q.Options {
		best = max(best, o.Points)
	}
	return best
}

func (t Test) MaxPoints() int {
	total := 0
	for _, q := range t.Questions {
		total += q.MaxPoints()
	}
	return total
}

// Band matches totals strictly above Above.
type Band struct {
	Name   string
	Above  int
	Advice string
}

type bandTable struct {
	max   int
	bands []Band
	floor Band
}

func (b bandTable) pick(total int) Band {
	for _, band := range b.bands {
		if total > band.Above {
			return band
		}
	}
	return b.floor
}

const sosAdvice = "If you need immediate help, run `guardmind crisis` for helplines."

var bandTables = map[TestID]bandTable{
	Depression: {
		max: 27,
		bands: []Band{
			{Name: "Severe Depression", Above: 20, Advice: "Your responses indicate that you may be at severe risk of harming yourself. " + sosAdvice},
			{Name: "Moderately Severe Depression", Above: 15, Advice: "Your responses indicate that you may be at severe risk of harming yourself. " + sosAdvice},
			{Name: "Moderate Depression", Above: 10, Advice: "Your responses indicate that you may be at moderate risk of harming yourself. " + sosAdvice},
			{Name: "Mild Depression", Above: 5, Advice: "Your responses indicate that you may be at lesser risk of harming yourself. " + sosAdvice},
		},
		floor: Band{Name: "No Depression", Advice: "Your responses indicate that you are mentally healthy and not at risk of harming yourself. " + sosAdvice},
	},
	Anxiety: {
		max: 21,
		bands: []Band{
			{Name: "Severe Anxiety", Above: 15},
			{Name: "Moderate Anxiety", Above: 10},
			{Name: "Mild Anxiety", Above: 5},
		},
		floor: Band{Name: "No Anxiety"},
	},
}

// Answers maps a question index to the points of the chosen option.
type Answers map[int]int

// Record stores the answer for question q. A later answer replaces an earlier one.
func (a Answers) Record(q, points int) {
	a[q] = points
}

type Result struct {
	Test    TestID `json:"test"`
	Title   string `json:"title"`
	Found   bool   `json:"found"`
	Total   int    `json:"total"`
	Max     int    `json:"max"`
	Band    string `json:"band"`
	Message string `json:"message"`
}
