// Package storage provides object storage implementations for uploaded
// spreadsheets, deal attachments, and rendered documents.
package storage

import (
	"context"
	"time"
)

// ObjectStorage abstracts the object store used for file uploads and
// generated documents.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for a client upload
	GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL
	GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error)
	// Upload stores data server-side, used for rendered documents
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) error
	// Download fetches an object's content, used to parse uploaded sheets
	Download(ctx context.Context, objectKey string) ([]byte, error)
	// DeleteObject removes an object
	DeleteObject(ctx context.Context, objectKey string) error
	// ObjectExists reports whether an object is present
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}
