package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"freeresumetools/internal/shared/storage/object"
	"freeresumetools/internal/shared/util"
)

const (
	sniffLen            = 3072
	defaultCacheControl = "3600"
)

// ErrInvalidInput indicates the upload request is missing its file or name.
var ErrInvalidInput = errors.New("invalid input")

// UploadError wraps a storage collaborator failure.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "File upload failed"
	}
	return "File upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }

// UploadRequest is one user-submitted file.
type UploadRequest struct {
	FileName string
	Body     io.Reader
	// Dir is the top-level folder the object is written under, e.g. "resumes".
	Dir string
}

// StoredObjectReference identifies an uploaded object.
type StoredObjectReference struct {
	Path        string `json:"path"`
	PublicURL   string `json:"publicUrl"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// Submitter writes user files to the object store.
type Submitter struct {
	Store object.ObjectStore
	// CacheControl is either a bare number of seconds or a full header value.
	CacheControl string
	Now          func() time.Time
}

// NewSubmitter constructs a Submitter.
func NewSubmitter(store object.ObjectStore, cacheControl string) *Submitter {
	return &Submitter{Store: store, CacheControl: cacheControl, Now: time.Now}
}

// ObjectPath builds "<dir>/<unix millis>_<file name>".
func ObjectPath(dir, fileName string, at time.Time) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	finalName := fmt.Sprintf("%d_%s", at.UnixMilli(), name)
	if dir == "" {
		return finalName, nil
	}
	return dir + "/" + finalName, nil
}

// Upload stores the file once, never overwriting, and resolves its public URL.
func (s *Submitter) Upload(ctx context.Context, req UploadRequest) (StoredObjectReference, error) {
	if req.Body == nil || strings.TrimSpace(req.FileName) == "" {
		return StoredObjectReference{}, ErrInvalidInput
	}
	if s.Store == nil {
		return StoredObjectReference{}, &UploadError{Err: errors.New("object store not configured")}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	path, err := ObjectPath(req.Dir, req.FileName, now())
	if err != nil {
		return StoredObjectReference{}, err
	}

	body, size, err := sizedBody(req.Body)
	if err != nil {
		return StoredObjectReference{}, &UploadError{Err: fmt.Errorf("read file: %w", err)}
	}

	sniff := make([]byte, sniffLen)
	n, readErr := io.ReadFull(body, sniff)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return StoredObjectReference{}, &UploadError{Err: fmt.Errorf("read file: %w", readErr)}
	}
	contentType := mimetype.Detect(sniff[:n]).String()
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return StoredObjectReference{}, &UploadError{Err: fmt.Errorf("rewind file: %w", err)}
	}

	err = s.Store.Upload(ctx, path, body, object.UploadOptions{
		ContentType:   contentType,
		CacheControl:  cacheControlHeader(s.CacheControl),
		ContentLength: size,
		Upsert:        false,
	})
	if err != nil {
		return StoredObjectReference{}, &UploadError{Err: err}
	}

	return StoredObjectReference{
		Path:        path,
		PublicURL:   s.Store.PublicURL(path),
		ContentType: contentType,
		SizeBytes:   size,
	}, nil
}

// cacheControlHeader turns "3600" into "max-age=3600" and passes full values through.
func cacheControlHeader(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultCacheControl
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return "max-age=" + raw
}

// sizedBody returns a rewindable body and its length. Seekable readers such
// as multipart files are used in place; anything else is buffered.
func sizedBody(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, 0, err
		}
		if start == 0 {
			return rs, end, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
