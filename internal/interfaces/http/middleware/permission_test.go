package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/infrastructure/cache"
)

type stubRoleRepo struct {
	roles map[string]*identity.Role
	calls int
}

func (s *stubRoleRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	return nil, shared.ErrNotFound
}

func (s *stubRoleRepo) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	s.calls++
	role, ok := s.roles[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return role, nil
}

func (s *stubRoleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Role, error) {
	return nil, nil
}

func (s *stubRoleRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (s *stubRoleRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := s.roles[code]
	return ok, nil
}

func (s *stubRoleRepo) CountUsersWithRole(ctx context.Context, code string) (int64, error) {
	return 0, nil
}

func (s *stubRoleRepo) Save(ctx context.Context, role *identity.Role) error { return nil }

func (s *stubRoleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func newTestRole(t *testing.T, code string, permissions []string) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(code, code, false)
	require.NoError(t, err)
	role.SetPermissions(permissions)
	return role
}

func newTestResolver(t *testing.T, repo *stubRoleRepo) *PermissionResolver {
	t.Helper()
	permCache := cache.NewInMemoryPermissionCache(time.Minute)
	return NewPermissionResolver(repo, permCache, zaptest.NewLogger(t))
}

func setupPermissionRouter(resolver *PermissionResolver, permission string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.GET("/deals", RequirePermission(resolver, permission), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequirePermission_Granted(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{
		"manager": newTestRole(t, "manager", []string{"deals:read", "deals:write"}),
	}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:read")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	req.Header.Set("X-User-Role", "manager")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermission_Denied(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{
		"installer": newTestRole(t, "installer", []string{"montage:read"}),
	}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:write")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	req.Header.Set("X-User-Role", "installer")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var response map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.False(t, response["success"].(bool))
	assert.NotNil(t, response["error"])
}

func TestRequirePermission_AdminBypassesChecks(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:write")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	req.Header.Set("X-User-Role", identity.AdminRoleCode)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, repo.calls)
}

func TestRequirePermission_MissingUserID(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:read")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission_MissingRole(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:read")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermission_UnknownRole(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{}}
	router := setupPermissionRouter(newTestResolver(t, repo), "deals:read")

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	req.Header.Set("X-User-Role", "ghost")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPermissionResolver_CachesRepositoryReads(t *testing.T) {
	repo := &stubRoleRepo{roles: map[string]*identity.Role{
		"manager": newTestRole(t, "manager", []string{"deals:read"}),
	}}
	resolver := newTestResolver(t, repo)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := resolver.HasAny(ctx, "manager", "deals:read")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, repo.calls)
}
