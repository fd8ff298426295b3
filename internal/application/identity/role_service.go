package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/shared"
)

// PermissionCacheInvalidator drops a role's cached permission set after
// the role changes.
type PermissionCacheInvalidator interface {
	Invalidate(ctx context.Context, roleCode string) error
}

// RoleService handles role and permission management
type RoleService struct {
	roleRepo identity.RoleRepository
	cache    PermissionCacheInvalidator
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// SetPermissionCache wires the cache invalidated on permission changes
func (s *RoleService) SetPermissionCache(cache PermissionCacheInvalidator) {
	s.cache = cache
}

// GetByID retrieves a role by ID
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// GetByCode retrieves a role by code
func (s *RoleService) GetByCode(ctx context.Context, code string) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// List retrieves all roles
func (s *RoleService) List(ctx context.Context, filter shared.Filter) ([]RoleResponse, int64, error) {
	roles, err := s.roleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToRoleResponses(roles), total, nil
}

// Create defines a new role with its permission set
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A role with this code already exists")
	}

	role, err := identity.NewRole(req.Code, req.Name, false)
	if err != nil {
		return nil, err
	}
	role.Description = req.Description
	if len(req.Permissions) > 0 {
		role.SetPermissions(req.Permissions)
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	response := ToRoleResponse(role)
	return &response, nil
}

// Update changes a role's display fields and, when provided, replaces
// its permission set.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Permissions != nil {
		role.SetPermissions(*req.Permissions)
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, role.Code)

	response := ToRoleResponse(role)
	return &response, nil
}

// Delete removes a role that is not a system role and has no users
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}

	inUse, err := s.roleRepo.CountUsersWithRole(ctx, role.Code)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return shared.NewDomainError("ROLE_IN_USE", "Role is still assigned to users")
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, role.Code)
	return nil
}

func (s *RoleService) invalidateCache(ctx context.Context, roleCode string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, roleCode)
}
