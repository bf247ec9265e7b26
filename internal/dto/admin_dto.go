package dto

// SubmissionRow is one line of the admin submissions table.
type SubmissionRow struct {
	Name             string
	Email            string
	Skills           string
	Filename         string
	Score            int
	BestRole         string
	MissingSkillList []string
	Suggestions      string
	AIFeedback       string
}
