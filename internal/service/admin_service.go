package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/model"
	"github.com/lshigami/placementai/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminService interface {
	ListSubmissions(ctx context.Context, skill string) ([]dto.SubmissionRow, error)
}

type adminService struct {
	submissions repository.SubmissionRepository
}

func NewAdminService(submissions repository.SubmissionRepository) AdminService {
	return &adminService{submissions: submissions}
}

func (s *adminService) ListSubmissions(ctx context.Context, skill string) ([]dto.SubmissionRow, error) {
	subs, err := s.submissions.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list submissions")
		return nil, fmt.Errorf("error fetching submissions: %w", err)
	}

	filtered := FilterAndSortSubmissions(subs, skill)
	rows := make([]dto.SubmissionRow, 0, len(filtered))
	for i := range filtered {
		var row dto.SubmissionRow
		if err := copier.Copy(&row, &filtered[i]); err != nil {
			return nil, fmt.Errorf("error preparing submission row: %w", err)
		}
		row.MissingSkillList = filtered[i].MissingSkillList()
		rows = append(rows, row)
	}
	return rows, nil
}

// FilterAndSortSubmissions keeps submissions whose skills contain skill
// (case-insensitive; empty keeps all) ordered by score, highest first.
// Equal scores keep their stored order.
func FilterAndSortSubmissions(subs []model.Submission, skill string) []model.Submission {
	needle := strings.ToLower(strings.TrimSpace(skill))
	out := make([]model.Submission, 0, len(subs))
	for _, sub := range subs {
		if needle == "" || strings.Contains(strings.ToLower(sub.Skills), needle) {
			out = append(out, sub)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Submission) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
