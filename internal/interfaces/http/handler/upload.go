package handler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// PresignStore is the slice of object storage the upload endpoints need
type PresignStore interface {
	GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}

// UploadHandler hands out presigned URLs for direct client uploads and
// downloads. Files themselves never pass through the API server.
type UploadHandler struct {
	BaseHandler
	store PresignStore
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store PresignStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// PresignUploadRequest represents a request for an upload URL
type PresignUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=300"`
	ContentType string `json:"content_type" binding:"max=100"`
}

// PresignUploadResponse carries the upload URL and the object key the
// client must register against an entity afterwards
type PresignUploadResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PresignUpload issues a presigned PUT URL for a new object key
func (h *UploadHandler) PresignUpload(c *gin.Context) {
	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	objectKey := fmt.Sprintf("uploads/%s%s", uuid.New(), ext)

	url, expiresAt, err := h.store.GenerateUploadURL(c.Request.Context(), objectKey, req.ContentType, presignExpiry)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PresignUploadResponse{
		ObjectKey: objectKey,
		UploadURL: url,
		ExpiresAt: expiresAt,
	})
}

// DownloadURL issues a presigned GET URL for an existing object
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	objectKey := c.Query("object_key")
	if objectKey == "" {
		h.BadRequest(c, "object_key query parameter is required")
		return
	}

	exists, err := h.store.ObjectExists(c.Request.Context(), objectKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !exists {
		h.NotFound(c, "Object not found")
		return
	}

	url, expiresAt, err := h.store.GenerateDownloadURL(c.Request.Context(), objectKey, presignExpiry)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DownloadURLResponse{
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	})
}
