package identity

import (
	"strings"
	"time"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AdminRoleCode is the built-in role that bypasses permission checks
const AdminRoleCode = "admin"

// PermissionCatalog lists every permission string the API enforces
var PermissionCatalog = []string{
	"pipelines:read",
	"pipelines:write",
	"deals:read",
	"deals:write",
	"tasks:read",
	"tasks:write",
	"warehouse:read",
	"warehouse:write",
	"procurement:read",
	"procurement:write",
	"montage:read",
	"montage:write",
	"suppliers:read",
	"suppliers:write",
	"activity:read",
	"identity:manage",
}

// Role groups a set of permissions under a code referenced by users
type Role struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	IsSystem    bool   `gorm:"not null;default:false"` // System roles cannot be deleted

	Permissions []RolePermission `gorm:"foreignKey:RoleID;references:ID"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// RolePermission is a single permission string granted to a role,
// e.g. "deals:write" or "warehouse:read".
type RolePermission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_perm,priority:1"`
	Permission string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_role_perm,priority:2"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (RolePermission) TableName() string {
	return "role_permissions"
}

// NewRole creates a new role
func NewRole(code, name string, isSystem bool) (*Role, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Role code cannot be empty")
	}
	if strings.ContainsAny(code, " \t") {
		return nil, shared.NewDomainError("INVALID_CODE", "Role code cannot contain whitespace")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}

	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		IsSystem:          isSystem,
		Permissions:       make([]RolePermission, 0),
	}, nil
}

// Update changes the role's display fields
func (r *Role) Update(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}
	r.Name = name
	r.Description = description
	r.UpdatedAt = time.Now()
	return nil
}

// SetPermissions replaces the role's permission set. Duplicates are collapsed.
func (r *Role) SetPermissions(permissions []string) {
	seen := make(map[string]struct{}, len(permissions))
	result := make([]RolePermission, 0, len(permissions))
	now := time.Now()
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, RolePermission{
			ID:         uuid.New(),
			RoleID:     r.ID,
			Permission: p,
			CreatedAt:  now,
		})
	}
	r.Permissions = result
	r.UpdatedAt = now
}

// PermissionStrings returns the role's permissions as a string slice
func (r *Role) PermissionStrings() []string {
	result := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		result = append(result, p.Permission)
	}
	return result
}

// HasPermission checks whether the role grants the given permission.
// The admin role grants everything.
func (r *Role) HasPermission(permission string) bool {
	if r.Code == AdminRoleCode {
		return true
	}
	for _, p := range r.Permissions {
		if p.Permission == permission {
			return true
		}
	}
	return false
}

// CanDelete returns true if the role may be removed
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}
