package services

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"path"
	"time"

	awspkg "catalog-service/pkg/aws"
)

const presignExpiry = time.Hour

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type PresignResult struct {
	UploadURL string `json:"uploadURL"`
	FileName  string `json:"fileName"`
}

// PresignService hands out direct-to-S3 upload URLs. Without a presigner it
// falls back to a local placeholder so development setups keep working.
type PresignService struct {
	presigner awspkg.PutObjectPresigner
	cfg       S3Config
}

func NewPresignService(presigner awspkg.PutObjectPresigner, cfg S3Config) *PresignService {
	return &PresignService{presigner: presigner, cfg: cfg}
}

func (s *PresignService) Presign(ctx context.Context, fileType string) (*PresignResult, error) {
	if s.presigner == nil || s.cfg.Bucket == "" {
		name := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Int64N(1e9))
		return &PresignResult{UploadURL: "/uploads/" + name, FileName: name}, nil
	}

	ext, ok := extensionsByType[fileType]
	if !ok {
		return nil, ErrUnsupportedImage
	}
	raw := make([]byte, 16)
	if _, err := cryptorand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	key := path.Join(s.cfg.Prefix, hex.EncodeToString(raw)+ext)

	url, err := awspkg.GeneratePresignedPutURL(ctx, s.presigner, s.cfg.Bucket, key, fileType, presignExpiry)
	if err != nil {
		return nil, err
	}
	return &PresignResult{
		UploadURL: url,
		FileName:  awspkg.PublicURL(s.cfg.CDNDomain, s.cfg.Endpoint, s.cfg.Bucket, key),
	}, nil
}
