package controllers

import (
	"errors"
	"net/http"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadController struct {
	images    services.ImageStore
	validator *RequestValidator
}

func NewUploadController(images services.ImageStore, v *RequestValidator) *UploadController {
	return &UploadController{images: images, validator: v}
}

// UploadImage stores a single product image sent as the "image" field.
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageSize+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "File size too large. Maximum 5MB allowed."})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	if err := ctrl.validator.ValidateImage(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open file"})
		return
	}
	defer f.Close()

	stored, err := ctrl.images.Save(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		zap.L().Error("Image upload failed", zap.String("file", fh.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}
	zap.L().Info("File uploaded", zap.String("original", fh.Filename), zap.String("stored", stored.StoredName))
	c.JSON(http.StatusOK, gin.H{
		"fileName":  stored.StoredName,
		"fileUrl":   stored.URL,
		"uploadURL": stored.URL,
	})
}
