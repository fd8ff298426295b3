package identity

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
)

// UserStatus represents the lifecycle status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a person who can authenticate against the API via the
// X-User-Id header and act within their role's permissions.
type User struct {
	shared.BaseAggregateRoot
	Name     string     `gorm:"type:varchar(200);not null"`
	Email    string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone    string     `gorm:"type:varchar(50)"`
	RoleCode string     `gorm:"type:varchar(50);not null;index"`
	Position string     `gorm:"type:varchar(100)"` // Job title, e.g. "installer", "sales manager"
	Status   UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user
func NewUser(name, email, roleCode string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if roleCode == "" {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role code cannot be empty")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		RoleCode:          roleCode,
		Status:            UserStatusActive,
	}, nil
}

// Update changes the user's profile fields
func (u *User) Update(name, phone, position string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	u.Name = name
	u.Phone = phone
	u.Position = position
	u.UpdatedAt = time.Now()
	return nil
}

// AssignRole changes the user's role
func (u *User) AssignRole(roleCode string) error {
	if roleCode == "" {
		return shared.NewDomainError("INVALID_ROLE", "Role code cannot be empty")
	}
	u.RoleCode = roleCode
	u.UpdatedAt = time.Now()
	return nil
}

// Activate marks the user as active
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
}

// Deactivate marks the user as inactive; inactive users are rejected by the
// identity middleware.
func (u *User) Deactivate() {
	u.Status = UserStatusInactive
	u.UpdatedAt = time.Now()
}

// IsActive returns true if the user can act in the system
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
