package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"catalog-service/services"

	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	MaxBulkUploadSize = 50 * 1024 * 1024 // 50MB
	MaxBulkImages     = 100
)

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Struct validates req against its validate tags and returns a message
// naming the first failing field.
func (rv *RequestValidator) Struct(req interface{}) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s is invalid (%s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}

// ValidateImage checks extension, declared MIME type and size.
func (rv *RequestValidator) ValidateImage(file *multipart.FileHeader) error {
	if err := services.ValidateImage(file.Filename, file.Header.Get("Content-Type")); err != nil {
		return err
	}
	if file.Size > services.MaxImageSize {
		return fmt.Errorf("file size too large. Maximum 5MB allowed")
	}
	return nil
}
