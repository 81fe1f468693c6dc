package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"freeresumetools/internal/shared/storage/object"
)

// Store implements ObjectStore using Google Cloud Storage.
type Store struct {
	bucket     *storage.BucketHandle
	bucketName string
	publicBase string
}

// New creates a GCS-backed store using application default credentials.
func New(ctx context.Context, bucket, publicBaseURL string) (*Store, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com"
	}
	return &Store{
		bucket:     client.Bucket(bucket),
		bucketName: bucket,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload streams r into the object. Without Upsert the write only succeeds
// if the object does not exist yet.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, opts object.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objectName := strings.TrimLeft(key, "/")
	handle := s.bucket.Object(objectName)
	if !opts.Upsert {
		handle = handle.If(storage.Conditions{DoesNotExist: true})
	}

	w := handle.NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.CacheControl = opts.CacheControl

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return s.wrap(objectName, err)
	}
	if err := w.Close(); err != nil {
		return s.wrap(objectName, err)
	}
	return nil
}

// PublicURL returns the public object URL.
func (s *Store) PublicURL(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + url.PathEscape(s.bucketName) + "/" + strings.Join(segments, "/")
}

func (s *Store) wrap(objectName string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("gcs write bucket=%s object=%s: %w", s.bucketName, objectName, object.ErrObjectExists)
	}
	return fmt.Errorf("gcs write bucket=%s object=%s: %w", s.bucketName, objectName, err)
}

var _ object.ObjectStore = (*Store)(nil)
