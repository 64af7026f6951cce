package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-service/importer"
	"catalog-service/models"
	"catalog-service/repository"
)

type ProductService struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
}

func NewProductService(products repository.ProductRepo, categories repository.CategoryRepo) *ProductService {
	return &ProductService{products: products, categories: categories}
}

// ListProducts filters by category and by a case-insensitive match on name
// or description. Each product comes back with its category populated.
func (s *ProductService) ListProducts(ctx context.Context, params ListProductsParams) ([]models.ProductView, error) {
	products, err := s.products.Find(ctx, repository.ProductFilter{
		CategoryID: params.CategoryID,
		Query:      strings.TrimSpace(params.Query),
	})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	byID, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, models.NewProductView(p, byID[p.CategoryID]))
	}
	return views, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *ProductService) CreateProduct(ctx context.Context, req ProductRequest) (*models.ProductView, error) {
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	categoryID := req.categoryID()
	if name == "" || categoryID == "" {
		return nil, fmt.Errorf("name and category are required: %w", ErrInvalidCategory)
	}
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	slug, err := importer.MintSlug(ctx, name, s.products.ExistsSlug)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:       name,
		Slug:       slug,
		CategoryID: categoryID,
		Images:     req.Images,
		Specs:      req.Specs,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Specs == nil {
		product.Specs = map[string]string{}
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return s.view(ctx, product)
}

// UpdateProduct applies the fields present in req. A category, when given,
// must exist.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*models.ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if categoryID := req.categoryID(); categoryID != "" {
		if err := s.checkCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Specs != nil {
		product.Specs = req.Specs
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) checkCategory(ctx context.Context, id string) error {
	_, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCategory
	}
	return err
}

func (s *ProductService) view(ctx context.Context, product *models.Product) (*models.ProductView, error) {
	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find category: %w", err)
	}
	v := models.NewProductView(product, category)
	return &v, nil
}

func (s *ProductService) categoryIndex(ctx context.Context) (map[string]*models.Category, error) {
	categories, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	byID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID, nil
}
