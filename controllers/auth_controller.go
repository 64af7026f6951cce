package controllers

import (
	"errors"
	"net/http"

	"catalog-service/common/middleware"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	service   AuthServiceAPI
	validator *RequestValidator
}

func NewAuthController(s AuthServiceAPI, v *RequestValidator) *AuthController {
	return &AuthController{service: s, validator: v}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		zap.L().Error("Register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	res, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		zap.L().Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me returns the authenticated user. RequireAuth must run first.
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.service.Me(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		handleServiceError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
