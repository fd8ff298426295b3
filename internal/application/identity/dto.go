package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/identity"
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	RoleCode  string    `json:"role_code"`
	Position  string    `json:"position,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse maps a user aggregate to its response form
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		RoleCode:  u.RoleCode,
		Position:  u.Position,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses maps a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, ToUserResponse(&users[i]))
	}
	return result
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	RoleCode string `json:"role_code" binding:"required"`
	Position string `json:"position"`
}

// UpdateUserRequest represents a request to update a user's profile
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

// AssignRoleRequest represents a request to change a user's role
type AssignRoleRequest struct {
	RoleCode string `json:"role_code" binding:"required"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	RoleCode string `form:"role_code"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToRoleResponse maps a role aggregate to its response form
func ToRoleResponse(r *identity.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: r.PermissionStrings(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToRoleResponses maps a slice of roles
func ToRoleResponses(roles []identity.Role) []RoleResponse {
	result := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, ToRoleResponse(&roles[i]))
	}
	return result
}

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,permission"`
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Permissions *[]string `json:"permissions" binding:"omitempty,dive,permission"`
}
