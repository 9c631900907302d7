package storage

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/theetaz/complaint-service/internal/config"
)

// ImageStore uploads complaint attachments to S3-compatible object storage.
type ImageStore struct {
	client *s3.Client
	bucket string
}

// NewImageStore builds an S3 client from static credentials. BaseEndpoint
// overrides the AWS endpoint for MinIO-style deployments.
func NewImageStore(ctx context.Context, cfg config.AWSConfig) (*ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &ImageStore{client: client, bucket: cfg.Bucket}, nil
}

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// Upload stores content under folder/filename and returns the public URL.
// Unsafe filename characters are replaced so the object key stays URL-clean.
func (s *ImageStore) Upload(ctx context.Context, folder, filename, contentType string, content []byte) (string, error) {
	key := folder + "/" + keySanitizer.ReplaceAllString(filename, "-")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
