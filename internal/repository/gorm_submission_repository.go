package repository

import (
	"context"

	"github.com/lshigami/placementai/internal/model"
	"gorm.io/gorm"
)

type gormSubmissionRepository struct {
	db *gorm.DB
}

func NewGormSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepository{db: db}
}

func (r *gormSubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error
	return subs, err
}

func (r *gormSubmissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}
