package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config is the image bucket together with a ready client
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
	// PublicBaseURL prefixes object keys in returned URLs. Empty means the
	// virtual-hosted AWS URL of the bucket.
	PublicBaseURL string
}

// NewS3Config builds the S3 client from the default AWS credential chain.
// S3_ENDPOINT points it at an S3 compatible store (MinIO, LocalStack) using
// path-style addressing.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	public := cfg.S3PublicURL
	if public == "" && cfg.S3Endpoint != "" {
		public = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3BucketName
	}

	return &S3Config{
		Client:        client,
		BucketName:    cfg.S3BucketName,
		Region:        cfg.AWSRegion,
		PublicBaseURL: public,
	}, nil
}

// ObjectURL is the URL stored on the recipe for an uploaded key
func (s *S3Config) ObjectURL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/") + "/" + strings.TrimLeft(key, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.BucketName, s.Region, key)
}
