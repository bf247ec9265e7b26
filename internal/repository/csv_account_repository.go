package repository

import (
	"context"
	"strings"

	"github.com/lshigami/placementai/internal/model"
)

var accountHeader = []string{"Email", "Password", "IsAdmin"}

type csvAccountRepository struct {
	table *csvTable
}

// NewCSVAccountRepository opens users.csv, creating it with its header when absent.
// The Password column holds a bcrypt hash.
func NewCSVAccountRepository(path string) (AccountRepository, error) {
	table, err := openCSVTable(path, accountHeader)
	if err != nil {
		return nil, err
	}
	return &csvAccountRepository{table: table}, nil
}

func (r *csvAccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.table.Rows()
	if err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, accountFromRow(row))
	}
	return accounts, nil
}

func (r *csvAccountRepository) Create(ctx context.Context, account *model.Account) error {
	record := []string{account.Email, account.PasswordHash, formatAdminFlag(account.IsAdmin)}
	appended, err := r.table.AppendUnless(record, func(row map[string]string) bool {
		return row["Email"] == account.Email
	})
	if err != nil {
		return err
	}
	if !appended {
		return ErrAccountExists
	}
	return nil
}

func (r *csvAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	rows, err := r.table.Rows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["Email"] == email {
			account := accountFromRow(row)
			return &account, nil
		}
	}
	return nil, ErrAccountNotFound
}

func accountFromRow(row map[string]string) model.Account {
	return model.Account{
		Email:        row["Email"],
		PasswordHash: row["Password"],
		IsAdmin:      parseAdminFlag(row["IsAdmin"]),
	}
}

func formatAdminFlag(isAdmin bool) string {
	if isAdmin {
		return "1"
	}
	return "0"
}

func parseAdminFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
