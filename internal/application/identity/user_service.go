package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/shared"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.RoleCode != "" {
		domainFilter.Filters["role_code"] = filter.RoleCode
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// ListByRole retrieves active users holding a role, used to populate
// task pools and montage crews.
func (s *UserService) ListByRole(ctx context.Context, roleCode string) ([]UserResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters["status"] = string(identity.UserStatusActive)

	users, err := s.userRepo.FindByRole(ctx, roleCode, filter)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// Create registers a new user after checking the role exists and the
// email is unused.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	roleExists, err := s.roleRepo.ExistsByCode(ctx, req.RoleCode)
	if err != nil {
		return nil, err
	}
	if !roleExists {
		return nil, shared.NewDomainError("UNKNOWN_ROLE", "Role does not exist: "+req.RoleCode)
	}

	user, err := identity.NewUser(req.Name, req.Email, req.RoleCode)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" || req.Position != "" {
		if err := user.Update(user.Name, req.Phone, req.Position); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Update changes a user's profile
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Update(req.Name, req.Phone, req.Position); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// AssignRole changes a user's role
func (s *UserService) AssignRole(ctx context.Context, id uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	roleExists, err := s.roleRepo.ExistsByCode(ctx, req.RoleCode)
	if err != nil {
		return nil, err
	}
	if !roleExists {
		return nil, shared.NewDomainError("UNKNOWN_ROLE", "Role does not exist: "+req.RoleCode)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.AssignRole(req.RoleCode); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables a user without deleting history that references it
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}
