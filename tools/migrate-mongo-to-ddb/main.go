// Command migrate-mongo-to-ddb copies the categories and products
// collections from MongoDB into the DynamoDB catalog tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"catalog-service/common/logger"
	"catalog-service/database"
	"catalog-service/models"
	awspkg "catalog-service/pkg/aws"
	"catalog-service/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type categorySource interface {
	ListAll(ctx context.Context) ([]models.Category, error)
}

type categorySink interface {
	Create(ctx context.Context, category *models.Category) error
}

type productSource interface {
	Find(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, error)
}

type productSink interface {
	Insert(ctx context.Context, product *models.Product) error
}

type migrationResult struct {
	Categories, Products, Failed int
}

func main() {
	_ = godotenv.Load()

	var mongoURI, dbName, productsTable, categoriesTable string
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_URI"), "MongoDB URI")
	flag.StringVar(&dbName, "db", os.Getenv("MONGO_DB_NAME"), "MongoDB database name")
	flag.StringVar(&productsTable, "products-table", envOr("DDB_TABLE_PRODUCTS", "Products"), "DynamoDB products table")
	flag.StringVar(&categoriesTable, "categories-table", envOr("DDB_TABLE_CATEGORIES", "Categories"), "DynamoDB categories table")
	flag.Parse()

	log, err := logger.Initialize(os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if mongoURI == "" || dbName == "" {
		zap.L().Fatal("MONGO_URI and MONGO_DB_NAME must be set or provided via flags")
	}

	ctx := context.Background()
	client, db, err := database.ConnectMongo(ctx, mongoURI, dbName)
	if err != nil {
		zap.L().Fatal("mongo connect", zap.Error(err))
	}
	defer database.CloseMongo(client)

	settings := awspkg.Settings{
		Region:          envOr("AWS_REGION", "us-east-1"),
		Endpoint:        os.Getenv("AWS_ENDPOINT"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
	awsCfg, err := awspkg.LoadAWSConfig(ctx, settings)
	if err != nil {
		zap.L().Fatal("aws config", zap.Error(err))
	}
	ddb := awspkg.NewDynamoClient(awsCfg, settings)

	res, err := migrate(ctx,
		repository.NewCategoryRepository(db), repository.NewDynamoCategoryAdapter(ddb, categoriesTable),
		repository.NewProductRepository(db), repository.NewDynamoAdapter(ddb, productsTable),
	)
	if err != nil {
		zap.L().Fatal("migration aborted", zap.Error(err))
	}
	fmt.Printf("Migration complete. categories=%d products=%d failed=%d\n", res.Categories, res.Products, res.Failed)
}

// migrate copies categories first so product category references resolve
// as soon as products land. Per-record write failures are logged and
// counted; read failures abort.
func migrate(ctx context.Context, catSrc categorySource, catDst categorySink, prodSrc productSource, prodDst productSink) (migrationResult, error) {
	var res migrationResult

	categories, err := catSrc.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	for i := range categories {
		c := categories[i]
		if err := catDst.Create(ctx, &c); err != nil {
			zap.L().Warn("failed to write category", zap.String("id", c.ID), zap.Error(err))
			res.Failed++
			continue
		}
		res.Categories++
	}

	products, err := prodSrc.Find(ctx, repository.ProductFilter{})
	if err != nil {
		return res, fmt.Errorf("list products: %w", err)
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		if err := prodDst.Insert(ctx, p); err != nil {
			zap.L().Warn("failed to write product", zap.String("id", p.ID), zap.Error(err))
			res.Failed++
			continue
		}
		res.Products++
		if res.Products%100 == 0 {
			zap.L().Info("migrated products", zap.Int("count", res.Products))
		}
	}

	if res.Categories+res.Products == 0 && res.Failed > 0 {
		return res, errors.New("no records could be written")
	}
	return res, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
