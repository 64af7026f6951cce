package controllers

import (
	"errors"
	"net/http"
	"strings"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PresignedURLHandler hands out direct upload URLs.
type PresignedURLHandler struct {
	service PresignServiceAPI
}

func NewPresignedURLHandler(s PresignServiceAPI) *PresignedURLHandler {
	return &PresignedURLHandler{service: s}
}

type presignRequest struct {
	FileType string `json:"fileType"`
}

func (h *PresignedURLHandler) CreatePresignedURL(c *gin.Context) {
	var req presignRequest
	_ = c.ShouldBindJSON(&req)
	fileType := strings.ToLower(strings.TrimSpace(req.FileType))
	if fileType == "" {
		fileType = "image/jpeg"
	}

	res, err := h.service.Presign(c.Request.Context(), fileType)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		zap.L().Error("Failed to generate presigned upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate presigned upload"})
		return
	}
	c.JSON(http.StatusOK, res)
}
