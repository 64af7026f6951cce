package controllers

import (
	"net/http"
	"strings"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	service   ProductServiceAPI
	cache     *CacheManager
	validator *RequestValidator
}

func NewProductController(s ProductServiceAPI, cache *CacheManager, v *RequestValidator) *ProductController {
	return &ProductController{service: s, cache: cache, validator: v}
}

func (ctrl *ProductController) present(c *gin.Context, v models.ProductView) models.ProductView {
	v.Images = absoluteURLs(c, v.Images)
	if v.Category != nil {
		cat := *v.Category
		cat.ImageURL = absoluteURL(c, cat.ImageURL)
		v.Category = &cat
	}
	return v
}

// GetProducts lists products, optionally filtered by ?category=<id> and a
// free-text ?q= matched against name and description.
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()
	params := services.ListProductsParams{
		CategoryID: strings.TrimSpace(c.Query("category")),
		Query:      strings.TrimSpace(c.Query("q")),
	}
	key := "c:" + params.CategoryID + ":q:" + strings.ToLower(params.Query)

	var products []models.ProductView
	if !ctrl.cache.Get(ctx, ProductListCachePrefix, key, &products) {
		var err error
		products, err = ctrl.service.ListProducts(ctx, params)
		if err != nil {
			handleServiceError(c, err, "Product not found")
			return
		}
		ctrl.cache.SetAsync(ProductListCachePrefix, key, products)
	}

	out := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ctrl.present(c, p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": ctrl.present(c, *product)})
}

func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	hasCategory := (req.CategoryID != nil && *req.CategoryID != "") || (req.Category != nil && *req.Category != "")
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || !hasCategory {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and category are required"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := ctrl.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"product": ctrl.present(c, *product)})
}

func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := ctrl.service.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"product": ctrl.present(c, *product)})
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	if err := ctrl.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, "Product not found")
		return
	}
	ctrl.cache.invalidateOrLog(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
