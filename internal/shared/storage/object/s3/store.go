package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"freeresumetools/internal/shared/storage/object"
)

// putObjectAPI is the subset of the S3 client the store needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3-compatible store.
type Options struct {
	Bucket        string
	Region        string
	Endpoint      string // empty for AWS; set for Supabase, R2, MinIO
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // objects resolve to <PublicBaseURL>/<bucket>/<key>
	UsePathStyle  bool
}

// Store implements ObjectStore on top of any S3-compatible API.
type Store struct {
	client     putObjectAPI
	bucket     string
	publicBase string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, clientOptions(opts))
	return newWithClient(client, opts.Bucket, publicBase(opts)), nil
}

// NewSupabase creates a store that talks to Supabase Storage through its
// S3-compatible endpoint and hands out Supabase public object URLs.
func NewSupabase(ctx context.Context, projectURL, bucket, region, accessKey, secretKey string) (*Store, error) {
	projectURL = strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if projectURL == "" {
		return nil, fmt.Errorf("supabase project url is required")
	}
	return New(ctx, Options{
		Bucket:        bucket,
		Region:        region,
		Endpoint:      projectURL + "/storage/v1/s3",
		AccessKey:     accessKey,
		SecretKey:     secretKey,
		PublicBaseURL: projectURL + "/storage/v1/object/public",
		UsePathStyle:  true,
	})
}

// clientOptions points the client at a custom endpoint. S3-compatible
// services do not all accept aws-chunked trailing checksums, so those are only
// sent when an operation requires them.
func clientOptions(opts Options) func(*s3.Options) {
	return func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(opts.Endpoint, "/"))
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
		o.UsePathStyle = opts.UsePathStyle
	}
}

func newWithClient(client putObjectAPI, bucket, base string) *Store {
	return &Store{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(base, "/"),
	}
}

// Upload writes the reader contents to key. Without Upsert the write is
// conditional on the key not existing yet.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, opts object.UploadOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	objectKey := strings.TrimLeft(key, "/")
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   r,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}
	if opts.ContentLength > 0 {
		input.ContentLength = aws.Int64(opts.ContentLength)
	}
	if !opts.Upsert {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		if isPreconditionFailure(err) {
			return fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, object.ErrObjectExists)
		}
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, objectKey, err)
	}
	return nil
}

// PublicURL returns the browser-resolvable URL of key.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + escapePath(s.bucket) + "/" + escapePath(strings.TrimLeft(key, "/"))
}

func isPreconditionFailure(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	default:
		return false
	}
}

func publicBase(opts Options) string {
	if opts.PublicBaseURL != "" {
		return opts.PublicBaseURL
	}
	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", region)
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

var _ object.ObjectStore = (*Store)(nil)
