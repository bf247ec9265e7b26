package repository

import (
	"context"
	"errors"

	"github.com/lshigami/placementai/internal/model"
	"gorm.io/gorm"
)

type gormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) AccountRepository {
	return &gormAccountRepository{db: db}
}

func (r *gormAccountRepository) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	return accounts, err
}

func (r *gormAccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Account{}).Where("email = ?", account.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAccountExists
		}
		err := tx.Create(account).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountExists
		}
		return err
	})
}

func (r *gormAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
