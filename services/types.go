package services

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CategoryRequest is used for both create and update. Image is accepted as
// an alias of ImageURL.
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Image       string `json:"image"`
}

func (r CategoryRequest) imageURL() string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.Image
}

// ProductRequest carries create and update fields. Pointer fields on update
// distinguish "not sent" from a zero value.
type ProductRequest struct {
	Name        *string           `json:"name"`
	CategoryID  *string           `json:"categoryId"`
	Category    *string           `json:"category"`
	Description *string           `json:"description"`
	Images      []string          `json:"images"`
	Specs       map[string]string `json:"specs"`
	Price       *float64          `json:"price" validate:"omitempty,gte=0"`
}

func (r ProductRequest) categoryID() string {
	if r.CategoryID != nil && *r.CategoryID != "" {
		return *r.CategoryID
	}
	if r.Category != nil {
		return *r.Category
	}
	return ""
}

type ListProductsParams struct {
	CategoryID string
	Query      string
}

type InquiryRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// InquiryUpdate is the admin edit of an inquiry. Only non-nil fields apply.
type InquiryUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Subject *string `json:"subject"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
}

// SearchResult is the body of GET /api/search.
type SearchResult struct {
	Query      string           `json:"query,omitempty"`
	Products   []SearchProduct  `json:"products"`
	Categories []SearchCategory `json:"categories"`
}

type SearchProduct struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Images   []string        `json:"images"`
	Price    float64         `json:"price"`
	Category *SearchCategory `json:"category"`
}

type SearchCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
