package dto

// AssessmentView is what the upload page shows after an evaluation.
type AssessmentView struct {
	Name             string
	Email            string
	Skills           string
	Filename         string
	Score            int
	BestRole         string
	MissingSkillList []string
	Suggestions      string
	Fallback         bool
}

type QuizQuestionView struct {
	Index    int
	Field    string
	Question string
	Options  []string
}

type QuestionResult struct {
	Question      string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
}

type QuizResult struct {
	Results []QuestionResult
	Correct int
	Total   int
	Score   int
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
