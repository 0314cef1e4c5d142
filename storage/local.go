package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrArtifactNotFound is returned when a requested artifact does not exist.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidPath is returned for empty paths and path traversal attempts.
	ErrInvalidPath = errors.New("invalid path")
)

// LocalStore keeps artifacts on the local filesystem under a base directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a filesystem-backed artifact store. The base
// directory is created if missing.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	baseDir = filepath.Clean(baseDir)
	if baseDir == "" || baseDir == "." {
		return nil, fmt.Errorf("%w: base directory cannot be empty", ErrInvalidPath)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Put stores the reader's contents at the given path.
func (s *LocalStore) Put(ctx context.Context, path string, reader io.Reader) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		// Drop the partial file so a failed write is not mistaken for an artifact.
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Get retrieves the artifact at the given path.
func (s *LocalStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Remove deletes the artifact at the given path.
func (s *LocalStore) Remove(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrArtifactNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists reports whether an artifact is present at the given path.
func (s *LocalStore) Exists(ctx context.Context, path string) (bool, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// List returns artifact paths under the given prefix, relative to the base
// directory. A missing prefix directory yields an empty list.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.baseDir
	if prefix != "" {
		resolved, err := s.resolve(prefix)
		if err != nil {
			return nil, err
		}
		root = resolved
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return paths, nil
}

// URL returns the filesystem path of the artifact.
func (s *LocalStore) URL(ctx context.Context, path string) (string, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	exists, err := s.Exists(ctx, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrArtifactNotFound
	}
	return fullPath, nil
}

// resolve joins the path with the base directory, rejecting traversal out
// of it.
func (s *LocalStore) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}

	fullPath := filepath.Join(s.baseDir, filepath.Clean(path))

	rel, err := filepath.Rel(s.baseDir, fullPath)
	if err != nil || (len(rel) > 0 && rel[0] == '.') {
		return "", fmt.Errorf("%w: path traversal detected", ErrInvalidPath)
	}
	return fullPath, nil
}
