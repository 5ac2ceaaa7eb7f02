package levels

import "testing"

func validLevel() Level {
	return Level{
		Kind:          LevelKind,
		SchemaVersion: 1,
		LevelID:       "level-abc",
		Number:        1,
		Title:         "x",
		Layout:        []string{"S.T", "#.E"},
		Tools:         []string{"Deep Breathing"},
	}
}

func TestPackValidateRejectsUnsupportedSchemaVersion(t *testing.T) {
	p := Pack{
		Kind:          PackKind,
		SchemaVersion: SupportedSchemaVersion + 1,
		PackID:        "mind-maze",
		Name:          "x",
		Version:       "0.1.0",
	}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected unsupported schema version error")
	}
}

func TestPackValidateRequiresSingleCorrectOption(t *testing.T) {
	p := Pack{
		Kind:          PackKind,
		SchemaVersion: 1,
		PackID:        "mind-maze",
		Name:          "x",
		Version:       "0.1.0",
		Challenges: []ChallengeSpec{{
			ID:       "c1",
			Question: "q",
			Options:  []OptionSpec{{Text: "a", Correct: true}, {Text: "b", Correct: true}},
		}},
	}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected validation error for two correct options")
	}
}

func TestLevelValidateAcceptsWellFormedLayout(t *testing.T) {
	if err := validLevel().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLevelValidateRejectsRaggedLayout(t *testing.T) {
	l := validLevel()
	l.Layout = []string{"S.T", "#E"}
	if err := l.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLevelValidateRequiresToolPerToolCell(t *testing.T) {
	l := validLevel()
	l.Tools = nil
	if err := l.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLevelValidateRequiresSingleStart(t *testing.T) {
	l := validLevel()
	l.Layout = []string{"SST", "#.E"}
	if err := l.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLevelValidateRejectsUnknownGlyph(t *testing.T) {
	l := validLevel()
	l.Layout = []string{"S?T", "#.E"}
	if err := l.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
