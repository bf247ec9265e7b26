package model

import "strings"

// Assessment is the normalised evaluation of a resume. It is never persisted
// on its own; its fields are copied into a Submission.
type Assessment struct {
	Score         int
	BestRole      string
	MissingSkills []string
	Suggestions   string
	RawFeedback   string
}

func (a Assessment) JoinedMissingSkills() string {
	return strings.Join(a.MissingSkills, MissingSkillsSeparator)
}
