package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// ParseUserRole accepts only the two known roles. Matching is
// case-insensitive on input but the result is always canonical.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password_hash;not null"`
	Role      UserRole  `json:"role" gorm:"size:10;not null;default:'USER'"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithStats is the admin listing row.
type UserWithStats struct {
	User
	ReviewCount    int        `json:"review_count"`
	LastReviewDate *time.Time `json:"last_review_date,omitempty"`
}

type UserProfile struct {
	User
	ReviewCount int `json:"review_count"`
}
