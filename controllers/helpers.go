package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	apperrors "catalog-service/common/errors"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

var absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)

// handleServiceError records err for ErrorMiddleware, which renders it.
func handleServiceError(c *gin.Context, err error, notFoundMsg string) {
	_ = c.Error(serviceError(err, notFoundMsg))
}

func serviceError(err error, notFoundMsg string) *apperrors.Error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return apperrors.New(http.StatusNotFound, notFoundMsg, err)
	case errors.Is(err, services.ErrInvalidCategory):
		return apperrors.New(http.StatusBadRequest, "Invalid category", err)
	case errors.Is(err, services.ErrInvalidStatus):
		return apperrors.New(http.StatusBadRequest, "Invalid status", err)
	case errors.Is(err, services.ErrAlreadyExists):
		return apperrors.New(http.StatusBadRequest, "Already exists", err)
	default:
		return apperrors.New(http.StatusInternalServerError, "Server error", err)
	}
}

// requestOrigin returns scheme://host of the current request, honouring a
// reverse proxy's X-Forwarded-Proto.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

// absoluteURL prefixes root-relative paths with the request origin. Empty
// values and URLs that already carry a scheme are returned unchanged.
func absoluteURL(c *gin.Context, url string) string {
	if url == "" || absoluteURLPattern.MatchString(url) {
		return url
	}
	return requestOrigin(c) + url
}

func absoluteURLs(c *gin.Context, urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = absoluteURL(c, u)
	}
	return out
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, services.ErrAlreadyExists)
}
