package models

import "time"

type Product struct {
	ID          string            `json:"_id" bson:"_id"`
	Name        string            `json:"name" bson:"name"`
	Slug        string            `json:"slug" bson:"slug"`
	CategoryID  string            `json:"category" bson:"category"`
	Description string            `json:"description" bson:"description"`
	Images      []string          `json:"images" bson:"images"`
	Specs       map[string]string `json:"specs" bson:"specs"`
	Price       float64           `json:"price" bson:"price"`
	CreatedAt   time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updated_at"`
}

// HasSoleImage reports whether path is the product's only image.
func (p *Product) HasSoleImage(path string) bool {
	return len(p.Images) == 1 && p.Images[0] == path
}

// ProductView is a product with its category populated, as returned by the API.
type ProductView struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Category    *Category         `json:"category"`
	Description string            `json:"description"`
	Images      []string          `json:"images"`
	Specs       map[string]string `json:"specs"`
	Price       float64           `json:"price"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func NewProductView(p *Product, category *Category) ProductView {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	specs := p.Specs
	if specs == nil {
		specs = map[string]string{}
	}
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Category:    category,
		Description: p.Description,
		Images:      images,
		Specs:       specs,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
