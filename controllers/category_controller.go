package controllers

import (
	"net/http"
	"strings"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	service CategoryServiceAPI
	cache   *CacheManager
}

func NewCategoryController(s CategoryServiceAPI, cache *CacheManager) *CategoryController {
	return &CategoryController{service: s, cache: cache}
}

func (ctrl *CategoryController) withAbsoluteImage(c *gin.Context, cat models.Category) models.Category {
	cat.ImageURL = absoluteURL(c, cat.ImageURL)
	return cat
}

func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var categories []models.Category
	if !ctrl.cache.Get(ctx, CategoryListCachePrefix, "all", &categories) {
		var err error
		categories, err = ctrl.service.ListCategories(ctx)
		if err != nil {
			handleServiceError(c, err, "Category not found")
			return
		}
		ctrl.cache.SetAsync(CategoryListCachePrefix, "all", categories)
	}

	out := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		out = append(out, ctrl.withAbsoluteImage(c, cat))
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	cat, err := ctrl.service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": ctrl.withAbsoluteImage(c, *cat)})
}

func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	cat, err := ctrl.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		if isAlreadyExists(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category with same name exists"})
			return
		}
		handleServiceError(c, err, "Category not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"category": ctrl.withAbsoluteImage(c, *cat)})
}

func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	cat, err := ctrl.service.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err, "Category not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"category": ctrl.withAbsoluteImage(c, *cat)})
}

func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	if err := ctrl.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, "Category not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
