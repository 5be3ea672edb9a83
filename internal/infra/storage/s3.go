package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PhotoStorage holds admin-uploaded lead photos. Keys follow the
// leads/{id}/photos/{timestamp}.jpg layout.
type S3PhotoStorage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3PhotoStorage(ctx context.Context, region, bucket, publicURL string) (*S3PhotoStorage, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3PhotoStorage{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

func (s *S3PhotoStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
