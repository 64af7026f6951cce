package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Settings are the AWS connection parameters read from the environment.
// Endpoint and S3Endpoint point the SDK at LocalStack during development.
type Settings struct {
	Region          string
	Endpoint        string
	S3Endpoint      string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig builds an SDK config for s. Static credentials are used only
// when given; otherwise the default provider chain applies.
func LoadAWSConfig(ctx context.Context, s Settings) (sdkaws.Config, error) {
	region := s.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if s.AccessKeyID != "" || s.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	return cfg, nil
}

// s3Endpoint prefers the S3 specific endpoint over the generic one.
func (s Settings) s3Endpoint() string {
	if s.S3Endpoint != "" {
		return s.S3Endpoint
	}
	return s.Endpoint
}
