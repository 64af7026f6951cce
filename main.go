package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apperrors "catalog-service/common/errors"
	"catalog-service/common/logger"
	"catalog-service/common/middleware"
	"catalog-service/controllers"
	"catalog-service/database"
	"catalog-service/importer"
	awspkg "catalog-service/pkg/aws"
	"catalog-service/repository"
	"catalog-service/routes"
	"catalog-service/sender"
	"catalog-service/services"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const brandName = "Al Najah Company"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.Initialize(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- 1. Initialization ---
	mongoClient, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	rdb := database.NewRedisClient(cfg.RedisURL)

	products, categories := catalogRepositories(ctx, cfg, db)
	if err := products.EnsureIndexes(ctx); err != nil {
		zap.L().Warn("Failed to ensure product indexes", zap.Error(err))
	}
	users := repository.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		zap.L().Warn("Failed to ensure user indexes", zap.Error(err))
	}
	inquiries := repository.NewInquiryRepository(db)

	images, presigner := imageStorage(ctx, cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middleware.NewHTTPMetrics(reg)
	importMetrics := importer.NewMetrics(reg)

	// --- 2. Dependency Injection (Wiring the layers together) ---
	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		zap.L().Fatal("Failed to initialize token service", zap.Error(err))
	}
	notifier, err := services.NewInquiryNotifier(emailSender(cfg), cfg.AdminEmail, brandName)
	if err != nil {
		zap.L().Fatal("Failed to load email templates", zap.Error(err))
	}

	cache := controllers.NewCacheManager(rdb)
	importService := services.NewImportService(categories, products, images, services.NewJobStore(rdb), cache, services.ImportConfig{
		StorageDir:           cfg.BulkStorageDir,
		DecoupleFieldUpdates: cfg.DecoupleFieldUpdates,
		Metrics:              importMetrics,
	})
	services.StartBulkImportWorker(ctx, importService)

	validator := controllers.NewRequestValidator()
	ctrls := routes.Controllers{
		Auth:       controllers.NewAuthController(services.NewAuthService(users, tokens), validator),
		Categories: controllers.NewCategoryController(services.NewCategoryService(categories), cache),
		Products:   controllers.NewProductController(services.NewProductService(products, categories), cache, validator),
		Inquiries:  controllers.NewInquiryController(services.NewInquiryService(inquiries, notifier), validator),
		Search:     controllers.NewSearchController(services.NewSearchService(products, categories)),
		Uploads:    controllers.NewUploadController(images, validator),
		Presign:    controllers.NewPresignedURLHandler(services.NewPresignService(presigner, cfg.S3)),
		BulkImport: controllers.NewBulkImportHandler(importService, validator),
	}

	// --- 3. HTTP Server & Middleware ---
	limiter := middleware.DefaultRateLimiter()
	go limiter.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(zap.L()))
	r.Use(httpMetrics.Middleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, ctrls, routes.Options{
		Verifier:       tokens,
		UploadDir:      cfg.UploadDir,
		RequestTimeout: controllers.DefaultContextTimeout,
		Gatherer:       reg,
	})

	// --- 4. Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Catalog service starting",
			zap.String("port", cfg.Port),
			zap.String("catalog_store", cfg.CatalogStore),
			zap.String("image_store", cfg.ImageStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down catalog service...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
	if err := database.CloseMongo(mongoClient); err != nil {
		zap.L().Error("Failed to close MongoDB", zap.Error(err))
	}
	zap.L().Info("Catalog service stopped gracefully")
}

// catalogRepositories picks the product and category backends. Users and
// inquiries always live in MongoDB.
func catalogRepositories(ctx context.Context, cfg *Config, db *mongo.Database) (repository.ProductRepo, repository.CategoryRepo) {
	if cfg.CatalogStore != "dynamodb" {
		return repository.NewProductRepository(db), repository.NewCategoryRepository(db)
	}

	awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}
	ddb := awspkg.NewDynamoClient(awsCfg, cfg.AWS)
	zap.L().Info("Using DynamoDB catalog store",
		zap.String("products_table", cfg.DDBProductsTable),
		zap.String("categories_table", cfg.DDBCategoriesTable),
		zap.String("endpoint", cfg.AWS.Endpoint))
	return repository.NewDynamoAdapter(ddb, cfg.DDBProductsTable),
		repository.NewDynamoCategoryAdapter(ddb, cfg.DDBCategoriesTable)
}

// imageStorage returns the image store and, for S3, a presigner. The
// presigner is nil for local storage so presigned uploads fall back to a
// local path.
func imageStorage(ctx context.Context, cfg *Config) (services.ImageStore, awspkg.PutObjectPresigner) {
	if cfg.ImageStore != "s3" {
		store, err := services.NewLocalImageStore(cfg.UploadDir)
		if err != nil {
			zap.L().Fatal("Failed to prepare upload directory", zap.Error(err))
		}
		return store, nil
	}

	awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}
	client := awspkg.NewS3Client(awsCfg, cfg.AWS)
	zap.L().Info("Using S3 image store", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.S3.Prefix))
	return services.NewS3ImageStore(client, cfg.S3), s3.NewPresignClient(client)
}

func emailSender(cfg *Config) sender.EmailSender {
	if !cfg.SMTP.Configured() {
		return sender.NoopSender{}
	}
	s, err := sender.NewSMTPSender(cfg.SMTP)
	if err != nil {
		zap.L().Warn("SMTP sender unavailable, emails disabled", zap.Error(err))
		return sender.NoopSender{}
	}
	return s
}
