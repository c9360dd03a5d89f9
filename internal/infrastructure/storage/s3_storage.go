// Package storage provides emitters that deliver rendered report exports.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	reportapp "github.com/erp/reporting/internal/application/report"
	infraconfig "github.com/erp/reporting/internal/infrastructure/config"
	"github.com/erp/reporting/internal/infrastructure/export"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ensure S3Emitter implements Emitter
var _ reportapp.Emitter = (*S3Emitter)(nil)

// objectPutter is the subset of the S3 client used for exports.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Emitter uploads report exports to an S3-compatible bucket
// (AWS S3, RustFS, MinIO, etc.)
type S3Emitter struct {
	client objectPutter
	bucket string
	prefix string
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

// S3EmitterOption is a functional option for configuring S3Emitter
type S3EmitterOption func(*S3Emitter)

// WithLogger sets a custom logger for S3Emitter
func WithLogger(logger *zap.Logger) S3EmitterOption {
	return func(e *S3Emitter) {
		e.logger = logger
	}
}

// WithKeyPrefix sets the object key prefix, "exports" by default.
func WithKeyPrefix(prefix string) S3EmitterOption {
	return func(e *S3Emitter) {
		e.prefix = strings.Trim(prefix, "/")
	}
}

// NewS3Emitter creates a new S3Emitter from configuration.
func NewS3Emitter(cfg *infraconfig.StorageConfig, opts ...S3EmitterOption) (*S3Emitter, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	// Validate required configuration
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	opts = append([]S3EmitterOption{WithKeyPrefix(cfg.Prefix)}, opts...)
	return newS3Emitter(client, cfg.Bucket, opts...), nil
}

func newS3Emitter(client objectPutter, bucket string, opts ...S3EmitterOption) *S3Emitter {
	e := &S3Emitter{
		client: client,
		bucket: bucket,
		prefix: "exports",
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.prefix == "" {
		e.prefix = "exports"
	}
	return e
}

// normalizeEndpoint adds a scheme to endpoint when missing.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9000" // RustFS default
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// ObjectKey returns the key an export is stored under:
// <prefix>/<yyyy>/<mm>/<id>-<filename>.
func (e *S3Emitter) ObjectKey(filename string) string {
	now := e.now().UTC()
	return path.Join(e.prefix, now.Format("2006"), now.Format("01"), e.newID()+"-"+path.Base(filename))
}

// Emit uploads data under a fresh object key.
func (e *S3Emitter) Emit(ctx context.Context, data []byte, filename string) error {
	if filename == "" {
		return errors.New("filename is required")
	}
	key := e.ObjectKey(filename)

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(e.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(export.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(filename))),
	})
	if err != nil {
		var noSuchBucket *types.NoSuchBucket
		if errors.As(err, &noSuchBucket) {
			return fmt.Errorf("storage bucket %s does not exist: %w", e.bucket, err)
		}
		return fmt.Errorf("failed to upload export: %w", err)
	}

	e.logger.Info("Export uploaded",
		zap.String("bucket", e.bucket),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	return nil
}

// GetBucket returns the bucket name
func (e *S3Emitter) GetBucket() string {
	return e.bucket
}
