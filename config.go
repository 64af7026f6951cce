package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	awspkg "catalog-service/pkg/aws"
	"catalog-service/sender"
	"catalog-service/services"
)

const jwtSecretName = "catalog/JWT_SECRET"

// Config holds all environment variables for the catalog service.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	TokenTTL  time.Duration

	MongoURI    string
	MongoDBName string
	RedisURL    string

	// CatalogStore is "mongo" or "dynamodb".
	CatalogStore       string
	DDBProductsTable   string
	DDBCategoriesTable string

	UploadDir string
	// ImageStore is "local" or "s3".
	ImageStore string
	AWS        awspkg.Settings
	S3         services.S3Config

	BulkStorageDir       string
	DecoupleFieldUpdates bool

	AllowedOrigins []string
	SMTP           sender.SMTPConfig
	AdminEmail     string
}

// secretLookup is swapped out in tests.
var secretLookup = func(ctx context.Context, s awspkg.Settings, name string) (string, error) {
	awsCfg, err := awspkg.LoadAWSConfig(ctx, s)
	if err != nil {
		return "", err
	}
	return awspkg.NewSecretsClient(awsCfg, s).GetSecret(ctx, name)
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true the JWT secret is read from Secrets Manager, with
// the environment as a fallback.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "4000"),
		Env:                getEnv("ENV", "development"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           services.DefaultTokenTTL,
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "catalog"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		CatalogStore:       strings.ToLower(getEnv("CATALOG_STORE", "mongo")),
		DDBProductsTable:   getEnv("DDB_TABLE_PRODUCTS", "Products"),
		DDBCategoriesTable: getEnv("DDB_TABLE_CATEGORIES", "Categories"),
		UploadDir:          getEnv("UPLOAD_DIR", "./public/uploads"),
		ImageStore:         strings.ToLower(getEnv("IMAGE_STORE", "local")),
		AWS: awspkg.Settings{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			S3Endpoint:      os.Getenv("AWS_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		S3: services.S3Config{
			Bucket:    os.Getenv("AWS_S3_BUCKET"),
			Prefix:    getEnv("AWS_S3_PREFIX", "products/"),
			CDNDomain: os.Getenv("AWS_CLOUDFRONT_DOMAIN"),
		},
		BulkStorageDir:       getEnv("BULK_STORAGE_DIR", services.DefaultBulkStorageDir),
		DecoupleFieldUpdates: os.Getenv("IMPORT_DECOUPLE_FIELD_UPDATES") == "true",
		AllowedOrigins:       splitList(os.Getenv("ALLOWED_ORIGINS")),
		SMTP: sender.SMTPConfig{
			Host:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			Secure:   os.Getenv("EMAIL_SECURE") == "true",
			FromName: getEnv("EMAIL_FROM_NAME", "Al Najah Company"),
		},
	}
	cfg.S3.Endpoint = cfg.AWS.S3Endpoint
	if cfg.S3.Endpoint == "" {
		cfg.S3.Endpoint = cfg.AWS.Endpoint
	}
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", cfg.SMTP.Username)

	port, err := strconv.Atoi(getEnv("EMAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("EMAIL_PORT must be a number: %w", err)
	}
	cfg.SMTP.Port = port

	if v := os.Getenv("TOKEN_EXPIRES_IN"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("TOKEN_EXPIRES_IN must be a positive duration, got %q", v)
		}
		cfg.TokenTTL = ttl
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if secret, err := secretLookup(context.Background(), cfg.AWS, jwtSecretName); err == nil && secret != "" {
			cfg.JWTSecret = secret
		}
	}

	switch cfg.CatalogStore {
	case "mongo", "dynamodb":
	default:
		return nil, fmt.Errorf("CATALOG_STORE must be mongo or dynamodb, got %q", cfg.CatalogStore)
	}
	switch cfg.ImageStore {
	case "local":
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("AWS_S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return nil, fmt.Errorf("IMAGE_STORE must be local or s3, got %q", cfg.ImageStore)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
