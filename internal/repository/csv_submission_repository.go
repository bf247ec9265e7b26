package repository

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/lshigami/placementai/internal/model"
)

var submissionHeader = []string{
	"Name", "Email", "Skills", "Filename", "Score",
	"BestRole", "MissingSkills", "Suggestions", "AIFeedback",
}

type csvSubmissionRepository struct {
	table *csvTable
}

func NewCSVSubmissionRepository(path string) (SubmissionRepository, error) {
	table, err := openCSVTable(path, submissionHeader)
	if err != nil {
		return nil, err
	}
	return &csvSubmissionRepository{table: table}, nil
}

func (r *csvSubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	rows, err := r.table.Rows()
	if err != nil {
		return nil, err
	}
	subs := make([]model.Submission, 0, len(rows))
	for i, row := range rows {
		subs = append(subs, model.Submission{
			ID:            uint(i + 1),
			Name:          row["Name"],
			Email:         row["Email"],
			Skills:        row["Skills"],
			Filename:      row["Filename"],
			Score:         ParseScore(row["Score"]),
			BestRole:      row["BestRole"],
			MissingSkills: row["MissingSkills"],
			Suggestions:   row["Suggestions"],
			AIFeedback:    row["AIFeedback"],
		})
	}
	return subs, nil
}

func (r *csvSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.table.Append([]string{
		s.Name, s.Email, s.Skills, s.Filename, strconv.Itoa(s.Score),
		s.BestRole, s.MissingSkills, s.Suggestions, s.AIFeedback,
	})
}

// ParseScore reads a stored score. Integers and floats are accepted (floats
// truncate); anything else counts as 0.
func ParseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
