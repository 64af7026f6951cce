// Command catalog-import runs a spreadsheet import against the catalog
// database without going through the HTTP API.
//
//	catalog-import -images ./photos products.xlsx
//	catalog-import -dry-run products.csv
//	catalog-import -template template.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"catalog-service/common/logger"
	"catalog-service/database"
	"catalog-service/importer"
	"catalog-service/models"
	"catalog-service/repository"
	"catalog-service/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var mongoURI, dbName, imagesDir, uploadDir, template string
	var dryRun, decouple bool
	flag.StringVar(&mongoURI, "mongo", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB URI")
	flag.StringVar(&dbName, "db", envOr("MONGO_DB_NAME", "catalog"), "MongoDB database name")
	flag.StringVar(&imagesDir, "images", "", "directory holding the images the sheet refers to")
	flag.StringVar(&uploadDir, "upload-dir", envOr("UPLOAD_DIR", "./public/uploads"), "where stored images are written")
	flag.StringVar(&template, "template", "", "write an empty import template to this path and exit")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the sheet without writing anything")
	flag.BoolVar(&decouple, "decouple-fields", os.Getenv("IMPORT_DECOUPLE_FIELD_UPDATES") == "true", "update description and specs independently")
	flag.Parse()

	log, err := logger.Initialize(os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if template != "" {
		if err := writeTemplate(template); err != nil {
			zap.L().Fatal("Failed to write template", zap.Error(err))
		}
		fmt.Printf("Template written to %s\n", template)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: catalog-import [flags] <sheet.xlsx|sheet.csv>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	sheetPath := flag.Arg(0)

	ctx := context.Background()
	client, db, err := database.ConnectMongo(ctx, mongoURI, dbName)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.CloseMongo(client)

	store, err := services.NewLocalImageStore(uploadDir)
	if err != nil {
		zap.L().Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	images, err := collectImages(ctx, imagesDir, store, dryRun)
	if err != nil {
		zap.L().Fatal("Failed to read images", zap.Error(err))
	}

	svc := services.NewImportService(
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
		store, nil, nil,
		services.ImportConfig{DecoupleFieldUpdates: decouple},
	)

	f, err := os.Open(sheetPath)
	if err != nil {
		zap.L().Fatal("Failed to open sheet", zap.String("path", sheetPath), zap.Error(err))
	}
	defer f.Close()

	report, err := svc.Import(ctx, filepath.Base(sheetPath), f, images, dryRun)
	if err != nil {
		zap.L().Fatal("Import failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		zap.L().Fatal("Failed to print report", zap.Error(err))
	}
}

// collectImages lists the allow-listed images in dir. Outside a dry run each
// one is copied into the image store and the stored name recorded.
func collectImages(ctx context.Context, dir string, store services.ImageStore, dryRun bool) ([]models.UploadedImage, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var images []models.UploadedImage
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		contentType := mime.TypeByExtension(filepath.Ext(name))
		if err := services.ValidateImage(name, contentType); err != nil {
			zap.L().Warn("Skipping unsupported file", zap.String("file", name))
			continue
		}
		if dryRun {
			images = append(images, models.UploadedImage{OriginalName: name, StoredName: name})
			continue
		}

		stored, err := saveFile(ctx, store, filepath.Join(dir, name), contentType)
		if err != nil {
			return images, fmt.Errorf("store %s: %w", name, err)
		}
		images = append(images, models.UploadedImage{OriginalName: name, StoredName: stored.StoredName})
	}
	return images, nil
}

func saveFile(ctx context.Context, store services.ImageStore, path, contentType string) (services.StoredImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return services.StoredImage{}, err
	}
	defer f.Close()
	return store.Save(ctx, filepath.Base(path), contentType, f)
}

func writeTemplate(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := importer.WriteTemplate(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
