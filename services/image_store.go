package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	awspkg "catalog-service/pkg/aws"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const MaxImageSize = 5 * 1024 * 1024

var ErrUnsupportedImage = errors.New("only image files (JPEG, PNG, GIF, WebP) are allowed")

var (
	allowedImageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	allowedImageTypes = map[string]bool{
		"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true, "image/webp": true,
	}
)

// ValidateImage requires both the file extension and the declared MIME type
// to be on the allow-list.
func ValidateImage(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	mime := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !allowedImageExtensions[ext] || !allowedImageTypes[mime] {
		return ErrUnsupportedImage
	}
	return nil
}

// NewStoredName returns "<unixMillis>-<random below 1e9><ext>".
func NewStoredName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1e9), ext)
}

type StoredImage struct {
	OriginalName string
	StoredName   string
	URL          string
}

// ImageStore persists uploaded product images.
type ImageStore interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (StoredImage, error)
	// URLPrefix is what a stored name is appended to to form its URL.
	URLPrefix() string
}

// LocalImageStore writes into <root>/products. The directory is served
// under /uploads.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(uploadRoot string) (*LocalImageStore, error) {
	dir := filepath.Join(uploadRoot, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) URLPrefix() string {
	return "/uploads/products/"
}

func (s *LocalImageStore) Save(ctx context.Context, originalName, _ string, r io.Reader) (StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}
	name := NewStoredName(originalName)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return StoredImage{}, fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return StoredImage{}, fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return StoredImage{}, fmt.Errorf("close image file: %w", err)
	}
	return StoredImage{OriginalName: originalName, StoredName: name, URL: s.URLPrefix() + name}, nil
}

// S3Uploader is the subset of *s3.Client used by S3ImageStore.
type S3Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Prefix    string
	CDNDomain string
	Endpoint  string
}

type S3ImageStore struct {
	client S3Uploader
	cfg    S3Config
}

func NewS3ImageStore(client S3Uploader, cfg S3Config) *S3ImageStore {
	if cfg.Prefix != "" && !strings.HasSuffix(cfg.Prefix, "/") {
		cfg.Prefix += "/"
	}
	return &S3ImageStore{client: client, cfg: cfg}
}

func (s *S3ImageStore) URLPrefix() string {
	return awspkg.PublicURL(s.cfg.CDNDomain, s.cfg.Endpoint, s.cfg.Bucket, s.cfg.Prefix)
}

func (s *S3ImageStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (StoredImage, error) {
	name := NewStoredName(originalName)
	key := path.Join(s.cfg.Prefix, name)
	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(s.cfg.Bucket),
		Key:    sdkaws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return StoredImage{}, fmt.Errorf("put object %s: %w", key, err)
	}
	url := awspkg.PublicURL(s.cfg.CDNDomain, s.cfg.Endpoint, s.cfg.Bucket, key)
	zap.L().Debug("image uploaded to s3", zap.String("key", key))
	return StoredImage{OriginalName: originalName, StoredName: name, URL: url}, nil
}
