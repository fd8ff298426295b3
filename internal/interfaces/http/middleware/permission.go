package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/infrastructure/cache"
	"github.com/furniflow/backend/internal/interfaces/http/dto"
)

// PermissionResolver answers "does this role grant this permission",
// reading role permissions through the cache and falling back to the
// role repository on a miss
type PermissionResolver struct {
	roleRepo identity.RoleRepository
	cache    cache.PermissionCache
	logger   *zap.Logger
}

// NewPermissionResolver creates a new PermissionResolver
func NewPermissionResolver(roleRepo identity.RoleRepository, permCache cache.PermissionCache, logger *zap.Logger) *PermissionResolver {
	return &PermissionResolver{
		roleRepo: roleRepo,
		cache:    permCache,
		logger:   logger,
	}
}

// HasAny reports whether the role grants at least one of the permissions.
// The admin role grants everything.
func (r *PermissionResolver) HasAny(ctx context.Context, roleCode string, permissions ...string) (bool, error) {
	if roleCode == identity.AdminRoleCode {
		return true, nil
	}

	granted, err := r.permissionsFor(ctx, roleCode)
	if err != nil {
		return false, err
	}

	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[p] = struct{}{}
	}
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (r *PermissionResolver) permissionsFor(ctx context.Context, roleCode string) ([]string, error) {
	if r.cache != nil {
		if perms, ok, err := r.cache.Get(ctx, roleCode); err == nil && ok {
			return perms, nil
		} else if err != nil {
			r.logger.Warn("Permission cache read failed",
				zap.String("role_code", roleCode),
				zap.Error(err),
			)
		}
	}

	role, err := r.roleRepo.FindByCode(ctx, roleCode)
	if err != nil {
		return nil, err
	}
	perms := role.PermissionStrings()

	if r.cache != nil {
		if err := r.cache.Set(ctx, roleCode, perms); err != nil {
			r.logger.Warn("Permission cache write failed",
				zap.String("role_code", roleCode),
				zap.Error(err),
			)
		}
	}
	return perms, nil
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(resolver *PermissionResolver, permission string) gin.HandlerFunc {
	return RequireAnyPermission(resolver, permission)
}

// RequireAnyPermission creates middleware that requires any of the
// specified permissions
func RequireAnyPermission(resolver *PermissionResolver, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing or invalid X-User-Id header"))
			return
		}
		roleCode := GetUserRole(c)
		if roleCode == "" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Missing X-User-Role header"))
			return
		}

		ok, err := resolver.HasAny(c.Request.Context(), roleCode, permissions...)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Unknown role: "+roleCode))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Role lacks required permission"))
			return
		}

		c.Next()
	}
}
