package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// CategorySlug derives a category slug: "&" reads as "and" and every other
// run of non-alphanumerics collapses to a single dash.
func CategorySlug(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

type CategoryService struct {
	repo repository.CategoryRepo
}

func NewCategoryService(repo repository.CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateCategory rejects duplicate names and keeps slugs unique by probing
// "<slug>-2", "<slug>-3" and so on.
func (s *CategoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidCategory)
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q: %w", name, ErrAlreadyExists)
	}

	base := strings.TrimSpace(req.Slug)
	if base == "" {
		base = CategorySlug(name)
	}
	slug, err := s.uniqueSlug(ctx, base)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		ImageURL:    req.imageURL(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// UpdateCategory applies the non-empty fields of req. A new name without an
// explicit slug regenerates the slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		category.Name = name
		if strings.TrimSpace(req.Slug) == "" {
			category.Slug = CategorySlug(name)
		}
	}
	if slug := strings.TrimSpace(req.Slug); slug != "" {
		category.Slug = slug
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if img := req.imageURL(); img != "" {
		category.ImageURL = img
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for suffix := 2; ; suffix++ {
		taken, err := s.repo.ExistsSlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
