package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	json "github.com/goccy/go-json"
	"github.com/golang/snappy"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// S3Storage persists the registry as a single JSON object in an S3 bucket,
// so a schema baseline survives container restarts and is shared between
// pipelines. Saves are load-merge-write over the whole object with no
// conditional put: concurrent writers can race and the last writer wins.
type S3Storage struct {
	client     *s3.Client
	bucket     string
	prefix     string
	compress   bool
	maxRetries int
}

// S3Config holds configuration for the S3 registry backend.
type S3Config struct {
	// Region is the AWS region for the bucket.
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.).
	Endpoint string
	// Prefix is the key prefix for the registry object (default "dfdrift").
	Prefix string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
	// Compress stores the registry snappy-compressed.
	Compress bool
}

// NewS3Storage creates an S3 registry backend. An empty bucket falls back to
// the DFDRIFT_S3_BUCKET environment variable; an empty prefix falls back to
// DFDRIFT_S3_PREFIX, then "dfdrift".
func NewS3Storage(ctx context.Context, bucket string, cfg S3Config) (*S3Storage, error) {
	if bucket == "" {
		bucket = os.Getenv("DFDRIFT_S3_BUCKET")
	}
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket must be provided or set via DFDRIFT_S3_BUCKET")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = os.Getenv("DFDRIFT_S3_PREFIX")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg, s3Opts...), bucket, cfg), nil
}

// NewS3StorageWithClient creates an S3 registry backend with a
// pre-configured client.
func NewS3StorageWithClient(client *s3.Client, bucket string, cfg S3Config) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     bucket,
		prefix:     normalizePrefix(cfg.Prefix),
		compress:   cfg.Compress,
		maxRetries: 3,
	}
}

// SaveSchema persists the fingerprint for a key, preserving all other keys.
func (s *S3Storage) SaveSchema(ctx context.Context, locationKey string, fp types.Fingerprint) error {
	registry, err := s.LoadSchemas(ctx)
	if err != nil {
		return err
	}
	registry[locationKey] = fp

	data, err := encodeRegistry(registry, s.compress)
	if err != nil {
		return err
	}

	contentType := "application/json"
	if s.compress {
		contentType = "application/octet-stream"
	}

	err = s.retryWithBackoff(ctx, func() error {
		_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.objectKey()),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return putErr
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// normalizePrefix strips leading slashes and guarantees a trailing slash.
func normalizePrefix(prefix string) string {
	if prefix == "" {
		prefix = "dfdrift"
	}
	prefix = strings.TrimPrefix(prefix, "/")
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// objectKey returns the registry object key. Compressed registries use a
// distinct suffix so plain and compressed registries never shadow each other.
func (s *S3Storage) objectKey() string {
	if s.compress {
		return s.prefix + "schemas.json.sz"
	}
	return s.prefix + "schemas.json"
}

// encodeRegistry serializes the registry document, optionally
// snappy-compressed.
func encodeRegistry(registry Registry, compress bool) ([]byte, error) {
	data, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// decodeRegistry deserializes a registry document produced by encodeRegistry.
func decodeRegistry(data []byte, compress bool) (Registry, error) {
	if compress {
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy: %v", ErrCorruptRegistry, err)
		}
		data = decoded
	}
	var registry Registry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRegistry, err)
	}
	if registry == nil {
		registry = Registry{}
	}
	return registry, nil
}

// LoadSchemas returns the full registry. A missing object is the first-run
// case and yields an empty registry, not an error.
func (s *S3Storage) LoadSchemas(ctx context.Context) (Registry, error) {
	var body []byte
	err := s.retryWithBackoff(ctx, func() error {
		resp, getErr := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.objectKey()),
		})
		if getErr != nil {
			return getErr
		}
		defer resp.Body.Close()

		var readErr error
		body, readErr = io.ReadAll(resp.Body)
		return readErr
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return decodeRegistry(body, s.compress)
}

// retryWithBackoff executes the operation with exponential backoff retry.
// Not-found errors are returned immediately; they resolve to the first-run
// empty registry, not a transient failure.
func (s *S3Storage) retryWithBackoff(ctx context.Context, operation func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		var noSuchKey *s3types.NoSuchKey
		if errors.As(lastErr, &noSuchKey) {
			return lastErr
		}

		if attempt < s.maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
