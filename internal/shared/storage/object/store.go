package object

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned when an upload without upsert targets an existing key.
var ErrObjectExists = errors.New("object already exists")

// UploadOptions controls how an object is written.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	// ContentLength is the exact body size. Zero means unknown.
	ContentLength int64
	// Upsert allows overwriting an existing object. When false the store must
	// refuse the write with ErrObjectExists.
	Upsert bool
}

// ObjectStore defines the contract for saving objects and resolving their public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, opts UploadOptions) error
	PublicURL(key string) string
}
