package entities

import (
	"time"

	"gorm.io/gorm"
)

// AccountRole is the closed set of roles an account can hold.
// Exactly one primary role per account; there is no role hierarchy.
type AccountRole string

const (
	RoleUser  AccountRole = "USER"
	RoleAdmin AccountRole = "ADMIN"
)

// Valid reports whether the role is one of the recognized values.
func (r AccountRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Account is a provisioned login identity. The plaintext password is
// transformed into PasswordDigest at creation time and never stored.
type Account struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordDigest string         `gorm:"size:100" json:"-"`
	Role           AccountRole    `gorm:"size:20" json:"role"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
