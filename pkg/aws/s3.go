package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates an S3 client. Path-style addressing is forced so
// custom endpoints such as LocalStack work.
func NewS3Client(cfg sdkaws.Config, s Settings) *s3.Client {
	endpoint := s.s3Endpoint()
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
}

// PublicURL returns the URL an object is readable at: through the CDN when
// one is configured, through a custom endpoint, or the bucket's S3 URL.
func PublicURL(cdnDomain, endpoint, bucket, key string) string {
	switch {
	case cdnDomain != "":
		domain := strings.TrimPrefix(strings.TrimPrefix(cdnDomain, "https://"), "http://")
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(domain, "/"), key)
	case endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
}

// PutObjectPresigner is satisfied by *s3.PresignClient.
type PutObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// GeneratePresignedPutURL presigns a PUT of key into bucket valid for expiry.
func GeneratePresignedPutURL(ctx context.Context, presigner PutObjectPresigner, bucket, key, contentType string, expiry time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}
	req, err := presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return req.URL, nil
}
