package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "catalog-service/common/errors"
	"catalog-service/importer"
	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func newTestCache() *CacheManager {
	return NewCacheManager(newTestRedisClient())
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type fakeProductService struct {
	lastParams services.ListProductsParams
	products   []models.ProductView
	product    *models.ProductView
	err        error
	created    *services.ProductRequest
}

func (f *fakeProductService) ListProducts(_ context.Context, p services.ListProductsParams) ([]models.ProductView, error) {
	f.lastParams = p
	return f.products, f.err
}

func (f *fakeProductService) GetProduct(context.Context, string) (*models.ProductView, error) {
	return f.product, f.err
}

func (f *fakeProductService) CreateProduct(_ context.Context, req services.ProductRequest) (*models.ProductView, error) {
	f.created = &req
	return f.product, f.err
}

func (f *fakeProductService) UpdateProduct(context.Context, string, services.ProductRequest) (*models.ProductView, error) {
	return f.product, f.err
}

func (f *fakeProductService) DeleteProduct(context.Context, string) error { return f.err }

type fakeCategoryService struct {
	categories []models.Category
	category   *models.Category
	err        error
}

func (f *fakeCategoryService) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryService) GetCategory(context.Context, string) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryService) CreateCategory(context.Context, services.CategoryRequest) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryService) UpdateCategory(context.Context, string, services.CategoryRequest) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryService) DeleteCategory(context.Context, string) error { return f.err }

type fakeInquiryService struct {
	inquiry *models.Inquiry
	err     error
	calls   int
}

func (f *fakeInquiryService) CreateInquiry(_ context.Context, req services.InquiryRequest) (*models.Inquiry, error) {
	f.calls++
	if f.inquiry == nil {
		f.inquiry = &models.Inquiry{ID: "i1", Name: req.Name, Email: req.Email, Message: req.Message, Status: models.InquiryStatusNew}
	}
	return f.inquiry, f.err
}

func (f *fakeInquiryService) ListInquiries(context.Context) ([]models.Inquiry, error) {
	return []models.Inquiry{}, f.err
}

func (f *fakeInquiryService) GetInquiry(context.Context, string) (*models.Inquiry, error) {
	return f.inquiry, f.err
}

func (f *fakeInquiryService) UpdateInquiry(context.Context, string, services.InquiryUpdate) (*models.Inquiry, error) {
	return f.inquiry, f.err
}

func (f *fakeInquiryService) DeleteInquiry(context.Context, string) error { return f.err }

type fakeImportService struct {
	savedImages int
	dryRun      bool
	filename    string
	images      []models.UploadedImage
	report      *importer.BatchReport
	importErr   error
	jobID       string
	job         *models.BulkImportJob
	jobErr      error
}

func (f *fakeImportService) SaveImages(_ context.Context, files []*multipart.FileHeader) ([]models.UploadedImage, error) {
	f.savedImages = len(files)
	out := make([]models.UploadedImage, 0, len(files))
	for _, fh := range files {
		out = append(out, models.UploadedImage{OriginalName: fh.Filename, StoredName: "stored-" + fh.Filename})
	}
	return out, nil
}

func (f *fakeImportService) Import(_ context.Context, filename string, r io.Reader, images []models.UploadedImage, dryRun bool) (*importer.BatchReport, error) {
	_, _ = io.Copy(io.Discard, r)
	f.filename = filename
	f.images = images
	f.dryRun = dryRun
	return f.report, f.importErr
}

func (f *fakeImportService) Enqueue(_ context.Context, filename string, _ io.Reader, images []models.UploadedImage) (string, error) {
	f.filename = filename
	f.images = images
	return f.jobID, f.jobErr
}

func (f *fakeImportService) GetJob(context.Context, string) (*models.BulkImportJob, error) {
	return f.job, f.jobErr
}
