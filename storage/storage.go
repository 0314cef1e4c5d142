// Package storage persists report artifacts (screenshots, traces, result
// files) behind a small blob interface so reports can live on disk during
// development and in S3 in deployment.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// ArtifactStore stores and retrieves report artifacts by relative path.
type ArtifactStore interface {
	// Put stores the reader's contents at the given path.
	Put(ctx context.Context, path string, reader io.Reader) error

	// Get retrieves the artifact at the given path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the artifact at the given path.
	Remove(ctx context.Context, path string) error

	// Exists reports whether an artifact is present at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns artifact paths under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns an access URL for the artifact. Local stores return a
	// filesystem path, S3 a presigned URL.
	URL(ctx context.Context, path string) (string, error)
}

// Config selects and parameterizes an artifact store backend.
type Config struct {
	Type          string
	BaseDir       string
	Bucket        string
	Region        string
	PresignExpiry time.Duration
}

// New creates the configured artifact store.
func New(cfg Config) (ArtifactStore, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "local":
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base dir is required for local storage")
		}
		return NewLocalStore(cfg.BaseDir)

	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("bucket is required for s3 storage")
		}
		if cfg.Region == "" {
			return nil, fmt.Errorf("region is required for s3 storage")
		}
		store, err := NewS3Store(cfg.Bucket, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		if cfg.PresignExpiry > 0 {
			store.presignExpiry = cfg.PresignExpiry
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
