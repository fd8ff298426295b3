package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresignStore struct {
	objects map[string]bool
}

func (f *fakePresignStore) GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/" + objectKey + "?sig=put", time.Now().Add(expiresIn), nil
}

func (f *fakePresignStore) GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.example.com/" + objectKey + "?sig=get", time.Now().Add(expiresIn), nil
}

func (f *fakePresignStore) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	return f.objects[objectKey], nil
}

func setupUploadRouter(store *fakePresignStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUploadHandler(store)
	engine := gin.New()
	engine.POST("/uploads/presign", h.PresignUpload)
	engine.GET("/uploads/download-url", h.DownloadURL)
	return engine
}

func TestUploadHandler_PresignUpload(t *testing.T) {
	engine := setupUploadRouter(&fakePresignStore{})

	body, _ := json.Marshal(PresignUploadRequest{
		FileName:    "quote.PDF",
		ContentType: "application/pdf",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/presign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data PresignUploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.ObjectKey, "uploads/"))
	assert.True(t, strings.HasSuffix(resp.Data.ObjectKey, ".pdf"), "extension is lowercased: %s", resp.Data.ObjectKey)
	assert.Contains(t, resp.Data.UploadURL, resp.Data.ObjectKey)
}

func TestUploadHandler_PresignUpload_RequiresFileName(t *testing.T) {
	engine := setupUploadRouter(&fakePresignStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/uploads/presign", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandler_DownloadURL(t *testing.T) {
	store := &fakePresignStore{objects: map[string]bool{"uploads/abc.pdf": true}}
	engine := setupUploadRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/uploads/download-url?object_key=uploads/abc.pdf", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data DownloadURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.DownloadURL, "uploads/abc.pdf")
}

func TestUploadHandler_DownloadURL_UnknownObject(t *testing.T) {
	engine := setupUploadRouter(&fakePresignStore{objects: map[string]bool{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/uploads/download-url?object_key=uploads/missing.pdf", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
