package controllers

import (
	"net/http"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

type InquiryController struct {
	service   InquiryServiceAPI
	validator *RequestValidator
}

func NewInquiryController(s InquiryServiceAPI, v *RequestValidator) *InquiryController {
	return &InquiryController{service: s, validator: v}
}

// CreateInquiry is public. The admin notification goes out in the
// background and never affects the response.
func (ctrl *InquiryController) CreateInquiry(c *gin.Context) {
	var req services.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, a valid email and message are required"})
		return
	}

	inquiry, err := ctrl.service.CreateInquiry(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, "Inquiry not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inquiry": inquiry})
}

func (ctrl *InquiryController) GetInquiries(c *gin.Context) {
	inquiries, err := ctrl.service.ListInquiries(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, "Inquiry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

func (ctrl *InquiryController) GetInquiry(c *gin.Context) {
	inquiry, err := ctrl.service.GetInquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Inquiry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

func (ctrl *InquiryController) UpdateInquiry(c *gin.Context) {
	var req services.InquiryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	inquiry, err := ctrl.service.UpdateInquiry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err, "Inquiry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

func (ctrl *InquiryController) DeleteInquiry(c *gin.Context) {
	if err := ctrl.service.DeleteInquiry(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, "Inquiry not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
}
