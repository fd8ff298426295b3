package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var _ ObjectStorage = (*LocalStorage)(nil)

// LocalStorage stores objects on the local filesystem. Development only;
// the presigned URLs it hands out are plain file-serving paths without
// signatures.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, errors.New("storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if baseURL == "" {
		baseURL = "/files"
	}
	return &LocalStorage{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// path resolves an object key inside baseDir, rejecting traversal
func (l *LocalStorage) path(objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	clean := filepath.Clean("/" + objectKey)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return filepath.Join(l.baseDir, clean), nil
}

func (l *LocalStorage) GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if _, err := l.path(objectKey); err != nil {
		return "", time.Time{}, err
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	return l.baseURL + "/" + objectKey, time.Now().Add(expiresIn), nil
}

func (l *LocalStorage) GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error) {
	return l.GenerateUploadURL(ctx, objectKey, "", expiresIn)
}

func (l *LocalStorage) Upload(ctx context.Context, objectKey string, data []byte, contentType string) error {
	p, err := l.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

func (l *LocalStorage) Download(ctx context.Context, objectKey string) ([]byte, error) {
	p, err := l.path(objectKey)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

func (l *LocalStorage) DeleteObject(ctx context.Context, objectKey string) error {
	p, err := l.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (l *LocalStorage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	p, err := l.path(objectKey)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
