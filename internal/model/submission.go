package model

import (
	"strings"
	"time"
)

// MissingSkillsSeparator joins missing skills for storage.
const MissingSkillsSeparator = ", "

type Submission struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null;index" json:"email"`
	Skills        string    `gorm:"type:text" json:"skills"`
	Filename      string    `gorm:"not null" json:"filename"`
	Score         int       `json:"score"`
	BestRole      string    `json:"best_role"`
	MissingSkills string    `gorm:"type:text" json:"missing_skills"`
	Suggestions   string    `gorm:"type:text" json:"suggestions"`
	AIFeedback    string    `gorm:"type:text" json:"ai_feedback"`
	CreatedAt     time.Time `json:"created_at"`
}

// MissingSkillList splits the stored comma-joined list back into entries.
func (s *Submission) MissingSkillList() []string {
	var out []string
	for _, skill := range strings.Split(s.MissingSkills, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}
