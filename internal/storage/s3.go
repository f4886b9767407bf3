package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive creates an archive backed by AWS S3, or by any S3-compatible
// server when cfg.Endpoint is set
func NewS3Archive(ctx context.Context, cfg Config) (Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	var client *s3.Client

	if cfg.Endpoint != "" {
		// MinIO doesn't care about region
		awsCfg, err := config.LoadDefaultConfig(ctx, append(opts, config.WithRegion("us-east-1"))...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		endpoint := cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}

		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true // MinIO requires path-style URLs
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		})
	} else {
		awsCfg, err := config.LoadDefaultConfig(ctx, append(opts, config.WithRegion(cfg.Region))...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3.NewFromConfig(awsCfg)
	}

	return &s3Archive{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Store uploads data under key
func (s *s3Archive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(normalizeContentType(contentType)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return nil
}
