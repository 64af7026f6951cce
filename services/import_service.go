package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalog-service/importer"
	"catalog-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBulkStorageDir = "./data/bulk_imports"
	finalSaveTimeout      = 5 * time.Second
)

var ErrQueueUnavailable = errors.New("import queue is not available")

// CacheInvalidator drops cached catalog listings after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type ImportConfig struct {
	StorageDir           string
	DecoupleFieldUpdates bool
	Metrics              *importer.Metrics
}

// ImportService runs spreadsheet imports either inline or through the
// Redis backed job queue.
type ImportService struct {
	categories importer.CategoryLister
	products   importer.ProductStore
	images     ImageStore
	jobs       *JobStore
	cache      CacheInvalidator
	cfg        ImportConfig
}

func NewImportService(categories importer.CategoryLister, products importer.ProductStore, images ImageStore, jobs *JobStore, cache CacheInvalidator, cfg ImportConfig) *ImportService {
	if cfg.StorageDir == "" {
		cfg.StorageDir = DefaultBulkStorageDir
	}
	return &ImportService{
		categories: categories,
		products:   products,
		images:     images,
		jobs:       jobs,
		cache:      cache,
		cfg:        cfg,
	}
}

// SaveImages stores every uploaded image and returns the original to stored
// name pairs the image resolver works from.
func (s *ImportService) SaveImages(ctx context.Context, files []*multipart.FileHeader) ([]models.UploadedImage, error) {
	uploaded := make([]models.UploadedImage, 0, len(files))
	for _, fh := range files {
		stored, err := s.saveImage(ctx, fh)
		if err != nil {
			return uploaded, fmt.Errorf("save image %q: %w", fh.Filename, err)
		}
		uploaded = append(uploaded, models.UploadedImage{OriginalName: fh.Filename, StoredName: stored.StoredName})
	}
	return uploaded, nil
}

func (s *ImportService) saveImage(ctx context.Context, fh *multipart.FileHeader) (StoredImage, error) {
	f, err := fh.Open()
	if err != nil {
		return StoredImage{}, err
	}
	defer f.Close()
	return s.images.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
}

// Import parses the spreadsheet and reconciles its rows. With dryRun set
// nothing is written.
func (s *ImportService) Import(ctx context.Context, filename string, spreadsheet io.Reader, images []models.UploadedImage, dryRun bool) (*importer.BatchReport, error) {
	reader, err := importer.ReaderFor(filename)
	if err != nil {
		return nil, err
	}
	rows, err := reader.ParseFirstSheet(spreadsheet)
	if err != nil {
		return nil, err
	}

	rec := importer.NewReconciler(s.categories, s.products, importer.Options{
		ImagePathPrefix:      s.images.URLPrefix(),
		DecoupleFieldUpdates: s.cfg.DecoupleFieldUpdates,
		DryRun:               dryRun,
		Metrics:              s.cfg.Metrics,
	})
	report, err := rec.Run(ctx, rows, images)
	if report != nil && !dryRun && report.Imported+report.Updated > 0 {
		s.invalidate(ctx)
	}
	return report, err
}

func (s *ImportService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		zap.L().Error("failed to invalidate cache after bulk import", zap.Error(err))
	}
}

// Enqueue persists the spreadsheet under the storage directory and queues a
// job for the worker. Images must already be stored.
func (s *ImportService) Enqueue(ctx context.Context, filename string, spreadsheet io.Reader, images []models.UploadedImage) (string, error) {
	if s.jobs == nil {
		return "", ErrQueueUnavailable
	}
	if _, err := importer.ReaderFor(filename); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.cfg.StorageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	jobID := uuid.NewString()
	path := filepath.Join(s.cfg.StorageDir, jobID+strings.ToLower(filepath.Ext(filename)))
	if err := writeFile(path, spreadsheet); err != nil {
		return "", err
	}

	job := &models.BulkImportJob{
		ID:        jobID,
		Status:    models.JobStatusPending,
		FilePath:  path,
		FileName:  filename,
		Images:    images,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if err := s.jobs.Push(ctx, jobID); err != nil {
		_ = os.Remove(path)
		_ = s.jobs.Delete(ctx, jobID)
		return "", err
	}

	zap.L().Info("bulk import job queued", zap.String("job_id", jobID))
	return jobID, nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to persist file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to persist file: %w", err)
	}
	return f.Close()
}

func (s *ImportService) GetJob(ctx context.Context, id string) (*models.BulkImportJob, error) {
	if s.jobs == nil {
		return nil, ErrQueueUnavailable
	}
	return s.jobs.Get(ctx, id)
}

// RunJob processes one queued job: pending, then processing, then done or
// failed. The persisted spreadsheet is removed either way.
func (s *ImportService) RunJob(ctx context.Context, id string) error {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	defer os.Remove(job.FilePath)

	job.Status = models.JobStatusProcessing
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	report, runErr := s.runFile(ctx, job)
	if runErr != nil {
		job.Status = models.JobStatusFailed
		job.Error = runErr.Error()
	} else {
		job.Status = models.JobStatusDone
	}
	if report != nil {
		if b, err := json.Marshal(report); err == nil {
			job.Result = b
		} else {
			zap.L().Error("failed to marshal job result", zap.String("job_id", id), zap.Error(err))
		}
	}
	saveCtx, cancel := finalSaveContext(ctx)
	defer cancel()
	if err := s.jobs.Save(saveCtx, job); err != nil {
		return err
	}
	return runErr
}

// finalSaveContext outlives ctx so a job interrupted by shutdown still records
// its terminal status.
func finalSaveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
}

func (s *ImportService) runFile(ctx context.Context, job *models.BulkImportJob) (*importer.BatchReport, error) {
	f, err := os.Open(filepath.Clean(job.FilePath))
	if err != nil {
		return nil, fmt.Errorf("open job file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, job.FileName, f, job.Images, false)
}
