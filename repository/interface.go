package repository

import (
	"context"
	"errors"

	"catalog-service/models"
)

// ErrNotFound is returned by lookups by ID when no record matches.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows product listings. Query matches name or description
// case-insensitively; NameQuery matches name only.
type ProductFilter struct {
	CategoryID string
	Query      string
	NameQuery  string
	Limit      int
}

// ProductRepo defines the product operations used by the services and the
// importer. It uses plain Go types so the Mongo and DynamoDB adapters are
// interchangeable.
type ProductRepo interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	// FindByNameAndCategory returns (nil, nil) when no product matches.
	FindByNameAndCategory(ctx context.Context, name, categoryID string) (*models.Product, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type CategoryRepo interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	// FindByName returns (nil, nil) when no category has that name.
	FindByName(ctx context.Context, name string) (*models.Category, error)
	// ListAll returns every category sorted by name.
	ListAll(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, nameQuery string, limit int) ([]models.Category, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type InquiryRepo interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	// FindAll returns inquiries newest first.
	FindAll(ctx context.Context) ([]models.Inquiry, error)
	FindByID(ctx context.Context, id string) (*models.Inquiry, error)
	Update(ctx context.Context, inquiry *models.Inquiry) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	// FindByEmail returns (nil, nil) when no user has that email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
