package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// EvidenceStore hands out presigned URLs for milestone evidence videos.
// Videos are always referenced by locator, never embedded.
type EvidenceStore interface {
	PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)
}

type s3EvidenceStore struct {
	presigner *s3.PresignClient
	bucket    string
}

// NewEvidenceStore creates an S3-backed evidence store
func NewEvidenceStore(ctx context.Context, bucket, region string) (EvidenceStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &s3EvidenceStore{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

func (s *s3EvidenceStore) PresignUpload(ctx context.Context, key string, expires time.Duration) (string, error) {
	out, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func (s *s3EvidenceStore) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	out, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}
