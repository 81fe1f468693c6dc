package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"freeresumetools/internal/shared/storage/object"
)

// RoutePrefix is where the router serves files written by this store.
const RoutePrefix = "/files"

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a new local object store rooted at baseDir. Public URLs are
// built from baseURL, which should point at the server exposing RoutePrefix.
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.baseDir
}

// Upload writes the reader to disk at key.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, opts object.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !opts.Upsert {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	f, err := os.OpenFile(fullPath, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("open file %s: %w", key, object.ErrObjectExists)
		}
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// PublicURL returns the URL under which the router serves key.
func (s *Store) PublicURL(key string) string {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(key)), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + RoutePrefix + "/" + strings.Join(segments, "/")
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
