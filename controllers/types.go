package controllers

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"catalog-service/importer"
	"catalog-service/models"
	"catalog-service/services"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
	// BulkImportTimeout bounds a synchronous bulk upload. It replaces the
	// router-wide request timeout for those routes.
	BulkImportTimeout = 10 * time.Minute
)

type AuthServiceAPI interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*services.UserInfo, error)
}

type CategoryServiceAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, req services.CategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, req services.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type ProductServiceAPI interface {
	ListProducts(ctx context.Context, params services.ListProductsParams) ([]models.ProductView, error)
	GetProduct(ctx context.Context, id string) (*models.ProductView, error)
	CreateProduct(ctx context.Context, req services.ProductRequest) (*models.ProductView, error)
	UpdateProduct(ctx context.Context, id string, req services.ProductRequest) (*models.ProductView, error)
	DeleteProduct(ctx context.Context, id string) error
}

type InquiryServiceAPI interface {
	CreateInquiry(ctx context.Context, req services.InquiryRequest) (*models.Inquiry, error)
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	GetInquiry(ctx context.Context, id string) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, id string, req services.InquiryUpdate) (*models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id string) error
}

type SearchServiceAPI interface {
	Search(ctx context.Context, q string) (*services.SearchResult, error)
}

type ImportServiceAPI interface {
	SaveImages(ctx context.Context, files []*multipart.FileHeader) ([]models.UploadedImage, error)
	Import(ctx context.Context, filename string, spreadsheet io.Reader, images []models.UploadedImage, dryRun bool) (*importer.BatchReport, error)
	Enqueue(ctx context.Context, filename string, spreadsheet io.Reader, images []models.UploadedImage) (string, error)
	GetJob(ctx context.Context, id string) (*models.BulkImportJob, error)
}

type PresignServiceAPI interface {
	Presign(ctx context.Context, fileType string) (*services.PresignResult, error)
}
