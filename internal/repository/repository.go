package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/placementai/config"
	"github.com/lshigami/placementai/internal/model"
	"gorm.io/gorm"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

type AccountRepository interface {
	List(ctx context.Context) ([]model.Account, error)
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

// SubmissionRepository lists submissions in insertion order.
type SubmissionRepository interface {
	List(ctx context.Context) ([]model.Submission, error)
	Create(ctx context.Context, submission *model.Submission) error
}

// NewAccountRepository picks the flat-file or SQL implementation from config.
func NewAccountRepository(cfg *config.Config, db *gorm.DB) (AccountRepository, error) {
	if cfg.Store.Driver == config.StoreDriverCSV {
		return NewCSVAccountRepository(cfg.Store.UsersPath())
	}
	if db == nil {
		return nil, fmt.Errorf("store driver %q requires a database connection", cfg.Store.Driver)
	}
	return NewGormAccountRepository(db), nil
}

func NewSubmissionRepository(cfg *config.Config, db *gorm.DB) (SubmissionRepository, error) {
	if cfg.Store.Driver == config.StoreDriverCSV {
		return NewCSVSubmissionRepository(cfg.Store.SubmissionsPath())
	}
	if db == nil {
		return nil, fmt.Errorf("store driver %q requires a database connection", cfg.Store.Driver)
	}
	return NewGormSubmissionRepository(db), nil
}
