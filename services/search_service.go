package services

import (
	"context"
	"fmt"
	"strings"

	"catalog-service/repository"
)

const (
	searchProductLimit  = 10
	searchCategoryLimit = 5
)

type SearchService struct {
	products   repository.ProductRepo
	categories repository.CategoryRepo
}

func NewSearchService(products repository.ProductRepo, categories repository.CategoryRepo) *SearchService {
	return &SearchService{products: products, categories: categories}
}

// Search matches product and category names. A blank query returns empty
// lists without touching the store.
func (s *SearchService) Search(ctx context.Context, q string) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	result := &SearchResult{Products: []SearchProduct{}, Categories: []SearchCategory{}}
	if q == "" {
		return result, nil
	}
	result.Query = q

	products, err := s.products.Find(ctx, repository.ProductFilter{NameQuery: q, Limit: searchProductLimit})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	categories, err := s.categories.Search(ctx, q, searchCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}

	all, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	byID := make(map[string]SearchCategory, len(all))
	for _, c := range all {
		byID[c.ID] = SearchCategory{ID: c.ID, Name: c.Name, Slug: c.Slug}
	}

	for _, p := range products {
		sp := SearchProduct{ID: p.ID, Name: p.Name, Slug: p.Slug, Images: p.Images, Price: p.Price}
		if sp.Images == nil {
			sp.Images = []string{}
		}
		if c, ok := byID[p.CategoryID]; ok {
			sp.Category = &c
		}
		result.Products = append(result.Products, sp)
	}
	for _, c := range categories {
		result.Categories = append(result.Categories, SearchCategory{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return result, nil
}
