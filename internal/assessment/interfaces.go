package assessment

type Scorer interface {
	Score(id TestID, answers Answers) Result
	ScoreTitle(title string, answers Answers) Result
}
