package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partnerapp "github.com/furniflow/backend/internal/application/partner"
	"github.com/furniflow/backend/internal/domain/partner"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/interfaces/http/dto"
	"github.com/furniflow/backend/internal/interfaces/http/middleware"
)

type fakeSupplierRepo struct {
	byID   map[uuid.UUID]*partner.Supplier
	byCode map[string]*partner.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{
		byID:   make(map[uuid.UUID]*partner.Supplier),
		byCode: make(map[string]*partner.Supplier),
	}
}

func (f *fakeSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeSupplierRepo) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	s, ok := f.byCode[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeSupplierRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*partner.Supplier, error) {
	result := make([]*partner.Supplier, 0, len(f.byID))
	for _, s := range f.byID {
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeSupplierRepo) FindActive(ctx context.Context) ([]*partner.Supplier, error) {
	result := make([]*partner.Supplier, 0)
	for _, s := range f.byID {
		if s.IsActive() {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeSupplierRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := f.byCode[code]
	return ok, nil
}

func (f *fakeSupplierRepo) Save(ctx context.Context, s *partner.Supplier) error {
	f.byID[s.ID] = s
	f.byCode[s.Code] = s
	return nil
}

func (f *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s, ok := f.byID[id]; ok {
		delete(f.byCode, s.Code)
		delete(f.byID, id)
	}
	return nil
}

func setupSupplierRouter(repo *fakeSupplierRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	h := NewSupplierHandler(partnerapp.NewSupplierService(repo))

	router := gin.New()
	router.GET("/suppliers", h.List)
	router.GET("/suppliers/:id", h.GetByID)
	router.POST("/suppliers", h.Create)
	router.POST("/suppliers/:id/deactivate", h.Deactivate)
	return router
}

func TestSupplierHandler_Create(t *testing.T) {
	router := setupSupplierRouter(newFakeSupplierRepo())

	body, _ := json.Marshal(map[string]string{
		"code": "acme",
		"name": "Acme Fittings",
	})
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ACME", data["code"])
	assert.Equal(t, "Acme Fittings", data["name"])
}

func TestSupplierHandler_Create_MissingName(t *testing.T) {
	router := setupSupplierRouter(newFakeSupplierRepo())

	body, _ := json.Marshal(map[string]string{"code": "acme"})
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}

func TestSupplierHandler_Create_DuplicateCode(t *testing.T) {
	repo := newFakeSupplierRepo()
	existing, err := partner.NewSupplier("ACME", "Acme Fittings")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), existing))

	router := setupSupplierRouter(repo)

	body, _ := json.Marshal(map[string]string{
		"code": "acme",
		"name": "Another Acme",
	})
	req := httptest.NewRequest(http.MethodPost, "/suppliers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSupplierHandler_GetByID_NotFound(t *testing.T) {
	router := setupSupplierRouter(newFakeSupplierRepo())

	req := httptest.NewRequest(http.MethodGet, "/suppliers/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSupplierHandler_GetByID_BadID(t *testing.T) {
	router := setupSupplierRouter(newFakeSupplierRepo())

	req := httptest.NewRequest(http.MethodGet, "/suppliers/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSupplierHandler_Deactivate(t *testing.T) {
	repo := newFakeSupplierRepo()
	supplier, err := partner.NewSupplier("ACME", "Acme Fittings")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), supplier))

	router := setupSupplierRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/suppliers/"+supplier.ID.String()+"/deactivate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "inactive", data["status"])
}
