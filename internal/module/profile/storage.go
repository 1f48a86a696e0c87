package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker/v2"

	"github.com/ticketflow/server/internal/shared/config"
)

// AvatarStorage stores uploaded avatar images and returns their public URL.
type AvatarStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3AvatarStorage implements AvatarStorage on S3-compatible object storage.
type S3AvatarStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3AvatarStorage creates a new S3-backed avatar storage.
func NewS3AvatarStorage(cfg *config.StorageConfig) (*S3AvatarStorage, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3AvatarStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3AvatarStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

func (s *S3AvatarStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// BreakerStorage wraps an AvatarStorage with a circuit breaker so a
// degraded object store fails requests fast instead of holding them.
type BreakerStorage struct {
	inner   AvatarStorage
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerStorage creates a breaker-protected avatar storage.
func NewBreakerStorage(inner AvatarStorage) *BreakerStorage {
	settings := gobreaker.Settings{
		Name:        "avatar-storage",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &BreakerStorage{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	url, err := b.breaker.Execute(func() (string, error) {
		return b.inner.Put(ctx, key, body, size, contentType)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrStorageUnavailable
		}
		return "", err
	}
	return url, nil
}

func (b *BreakerStorage) Delete(ctx context.Context, key string) error {
	_, err := b.breaker.Execute(func() (string, error) {
		return "", b.inner.Delete(ctx, key)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrStorageUnavailable
	}
	return err
}

// State returns the current breaker state.
func (b *BreakerStorage) State() gobreaker.State {
	return b.breaker.State()
}
