package routes

import (
	"net/http"
	"time"

	"catalog-service/common/middleware"
	"catalog-service/controllers"
	"catalog-service/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Categories *controllers.CategoryController
	Products   *controllers.ProductController
	Inquiries  *controllers.InquiryController
	Search     *controllers.SearchController
	Uploads    *controllers.UploadController
	Presign    *controllers.PresignedURLHandler
	BulkImport *controllers.BulkImportHandler
}

type Options struct {
	Verifier       middleware.TokenVerifier
	UploadDir      string
	RequestTimeout time.Duration
	// Gatherer backs /metrics. Nil leaves the endpoint unregistered.
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, ctrl Controllers, opts Options) {
	authed := middleware.RequireAuth(opts.Verifier)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)
	adminOnly := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{authed, requireAdmin, h}
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "catalog API running")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	// Bulk imports run for minutes; the handler applies its own deadline.
	bulk := r.Group("/api/bulk-upload", authed, requireAdmin)
	{
		bulk.POST("", ctrl.BulkImport.CreateBulkProducts)
		bulk.POST("/validate", ctrl.BulkImport.ValidateBulkImport)
		bulk.GET("/template", ctrl.BulkImport.DownloadTemplate)
		bulk.GET("/jobs/:id", ctrl.BulkImport.GetBulkImportJobStatus)
	}

	api := r.Group("/api")
	if opts.RequestTimeout > 0 {
		api.Use(middleware.Timeout(opts.RequestTimeout))
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", ctrl.Auth.Register)
		authRoutes.POST("/login", ctrl.Auth.Login)
		authRoutes.GET("/me", authed, ctrl.Auth.Me)
	}

	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", ctrl.Categories.GetCategories)
		categoryRoutes.GET("/:id", ctrl.Categories.GetCategory)
		categoryRoutes.POST("", adminOnly(ctrl.Categories.CreateCategory)...)
		categoryRoutes.PUT("/:id", adminOnly(ctrl.Categories.UpdateCategory)...)
		categoryRoutes.DELETE("/:id", adminOnly(ctrl.Categories.DeleteCategory)...)
	}

	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", ctrl.Products.GetProducts)
		productRoutes.GET("/:id", ctrl.Products.GetProduct)
		productRoutes.POST("", adminOnly(ctrl.Products.CreateProduct)...)
		productRoutes.PUT("/:id", adminOnly(ctrl.Products.UpdateProduct)...)
		productRoutes.DELETE("/:id", adminOnly(ctrl.Products.DeleteProduct)...)
	}

	inquiryRoutes := api.Group("/inquiries")
	{
		inquiryRoutes.POST("", ctrl.Inquiries.CreateInquiry)
		inquiryRoutes.GET("", adminOnly(ctrl.Inquiries.GetInquiries)...)
		inquiryRoutes.GET("/:id", adminOnly(ctrl.Inquiries.GetInquiry)...)
		inquiryRoutes.PUT("/:id", adminOnly(ctrl.Inquiries.UpdateInquiry)...)
		inquiryRoutes.DELETE("/:id", adminOnly(ctrl.Inquiries.DeleteInquiry)...)
	}

	uploadRoutes := api.Group("/uploads", authed)
	{
		uploadRoutes.POST("/image", ctrl.Uploads.UploadImage)
		uploadRoutes.POST("/presigned-url", ctrl.Presign.CreatePresignedURL)
	}

	api.GET("/search", ctrl.Search.Search)
}
