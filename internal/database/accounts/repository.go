// Package accounts provides database operations for login accounts.
//
// # Usage
//
//	repo := accounts.NewRepository(db)
//	account, err := repo.GetByUsername("soon")
package accounts

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/soonhyok/accountd/internal/entities"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrAccountNotFound   = errors.New("account not found")
)

// Repository handles all account database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new account. The unique index on username is the
// linearization point: when two creations race on the same username exactly
// one succeeds and the other gets ErrDuplicateUsername.
func (r *Repository) Create(account *entities.Account) (*entities.Account, error) {
	if err := r.db.Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return account, nil
}

// GetByUsername retrieves an account by username.
func (r *Repository) GetByUsername(username string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by ID.
func (r *Repository) GetByID(id uint) (*entities.Account, error) {
	var account entities.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// List returns all accounts ordered by username.
func (r *Repository) List() ([]entities.Account, error) {
	var accounts []entities.Account
	err := r.db.Order("username ASC").Find(&accounts).Error
	return accounts, err
}

// Count returns the number of accounts.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Account{}).Count(&count).Error
	return count, err
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// GORM translates these to ErrDuplicatedKey; the raw sqlite3 error is
// checked as well since translation depends on driver support.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
