package controllers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"catalog-service/importer"
	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BulkImportHandler handles bulk product import operations
type BulkImportHandler struct {
	service   ImportServiceAPI
	validator *RequestValidator
}

func NewBulkImportHandler(s ImportServiceAPI, v *RequestValidator) *BulkImportHandler {
	return &BulkImportHandler{service: s, validator: v}
}

type bulkUpload struct {
	excel  *multipart.FileHeader
	images []*multipart.FileHeader
}

// CreateBulkProducts imports an Excel/CSV sheet plus the images it refers to.
// With ?async=true the sheet is queued and a job ID is returned.
func (h *BulkImportHandler) CreateBulkProducts(c *gin.Context) {
	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	sheet, ok := h.readSheet(c, upload.excel)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), BulkImportTimeout)
	defer cancel()

	images, err := h.service.SaveImages(ctx, upload.images)
	if err != nil {
		zap.L().Error("Failed to store bulk images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Bulk upload failed", "error": err.Error()})
		return
	}
	zap.L().Info("Processing bulk upload",
		zap.String("excel", upload.excel.Filename), zap.Int("images", len(images)))

	if strings.EqualFold(strings.TrimSpace(c.Query("async")), "true") {
		jobID, err := h.service.Enqueue(ctx, upload.excel.Filename, bytes.NewReader(sheet), images)
		if err != nil {
			zap.L().Error("Failed to enqueue async bulk import", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to queue import job"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "message": "Import queued for processing"})
		return
	}

	report, err := h.service.Import(ctx, upload.excel.Filename, bytes.NewReader(sheet), images, false)
	if err != nil {
		h.importFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BulkImportResult{
		Success: true,
		Summary: models.BulkImportSummary{
			Total:    report.Total,
			Imported: report.Imported,
			Updated:  report.Updated,
			Skipped:  report.Skipped,
			Errors:   report.Errored,
		},
		ImagesUploaded: report.ImagesUploaded,
		Errors:         report.Errors,
	})
}

// ValidateBulkImport runs the import as a dry run. Images are only matched
// by name, never stored.
func (h *BulkImportHandler) ValidateBulkImport(c *gin.Context) {
	upload, ok := h.readUpload(c)
	if !ok {
		return
	}

	images := make([]models.UploadedImage, 0, len(upload.images))
	for _, img := range upload.images {
		images = append(images, models.UploadedImage{OriginalName: img.Filename, StoredName: img.Filename})
	}

	f, err := upload.excel.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open file"})
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), BulkImportTimeout)
	defer cancel()

	report, err := h.service.Import(ctx, upload.excel.Filename, f, images, true)
	if err != nil {
		h.importFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetBulkImportJobStatus returns the job record stored in Redis
func (h *BulkImportHandler) GetBulkImportJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Job ID required"})
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
			return
		}
		zap.L().Error("Failed to get job status", zap.String("job_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve job status"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// DownloadTemplate serves an empty import workbook.
func (h *BulkImportHandler) DownloadTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		zap.L().Error("Failed to build import template", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to build template"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="product-import-template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// readUpload parses and validates the multipart body. It writes the error
// response itself and reports whether the caller should continue.
func (h *BulkImportHandler) readUpload(c *gin.Context) (*bulkUpload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBulkUploadSize)
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": fmt.Sprintf("Upload too large (max %dMB)", MaxBulkUploadSize/(1024*1024))})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Expected multipart form data"})
		return nil, false
	}

	excel := form.File["excel"]
	switch {
	case len(excel) == 0:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Excel file is required"})
		return nil, false
	case len(excel) > 1:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only one Excel file is allowed"})
		return nil, false
	}
	if !importer.IsSupportedSpreadsheet(excel[0].Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file type. Upload an .xlsx or .csv file"})
		return nil, false
	}

	images := form.File["images"]
	if len(images) > MaxBulkImages {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Too many images (max %d)", MaxBulkImages)})
		return nil, false
	}
	for _, img := range images {
		if err := h.validator.ValidateImage(img); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("%s: %v", img.Filename, err)})
			return nil, false
		}
	}
	return &bulkUpload{excel: excel[0], images: images}, true
}

// readSheet loads the spreadsheet and checks that it parses, so a bad sheet
// is rejected before any image is stored.
func (h *BulkImportHandler) readSheet(c *gin.Context, fh *multipart.FileHeader) ([]byte, bool) {
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open file"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read file"})
		return nil, false
	}
	reader, err := importer.ReaderFor(fh.Filename)
	if err == nil {
		_, err = reader.ParseFirstSheet(bytes.NewReader(data))
	}
	if err != nil {
		h.importFailed(c, err)
		return nil, false
	}
	return data, true
}

func (h *BulkImportHandler) importFailed(c *gin.Context, err error) {
	if errors.Is(err, importer.ErrUnreadableSpreadsheet) ||
		errors.Is(err, importer.ErrNoRows) ||
		errors.Is(err, importer.ErrUnsupportedFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bulk upload failed", "error": err.Error()})
		return
	}
	zap.L().Error("Bulk import processing failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Bulk upload failed", "error": err.Error()})
}
