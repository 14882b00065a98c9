package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FS stores objects as files under a root directory and serves them from a
// configured public base URL (a CDN or reverse-proxied static mount).
type FS struct {
	root          string
	publicBaseURL string
}

// NewFS builds a filesystem store rooted at root.
func NewFS(root, publicBaseURL string) (*FS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if strings.TrimSpace(publicBaseURL) == "" {
		return nil, fmt.Errorf("storage public base url is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %q: %w", root, err)
	}
	return &FS{
		root:          root,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (f *FS) Save(ctx context.Context, key string, r io.Reader) error {
	full, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}

	// Write to a temp file first so a failed upload never leaves a partial
	// object at the final key.
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing object %q: %w", key, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("placing object %q: %w", key, err)
	}
	return nil
}

func (f *FS) Delete(ctx context.Context, key string) error {
	full, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting object %q: %w", key, err)
	}
	return nil
}

func (f *FS) URL(key string) string {
	return f.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}

func (f *FS) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("object key is required")
	}
	return filepath.Join(f.root, filepath.FromSlash(clean)), nil
}
