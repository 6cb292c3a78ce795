package model

import "time"

// Product status values. Listings only show active products unless the
// caller asks for another status explicitly.
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
)

// ValidStatus reports whether s is a known product status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusDiscontinued
}

// Product represents a catalogue product. Ratings and NumOfReviews are
// derived from the review list and recomputed on every review write;
// they must never be set directly.
type Product struct {
	ID             string            `json:"id" db:"id"`
	Name           string            `json:"name" db:"name"`
	Description    string            `json:"description" db:"description"`
	Price          float64           `json:"price" db:"price"`
	DiscountPrice  *float64          `json:"discountPrice,omitempty" db:"discount_price"`
	CategoryID     string            `json:"categoryId" db:"category_id"`
	CategoryName   string            `json:"categoryName,omitempty" db:"category_name"`
	CategorySlug   string            `json:"categorySlug,omitempty" db:"category_slug"`
	Brand          string            `json:"brand" db:"brand"`
	Stock          int               `json:"stock" db:"stock"`
	Specifications map[string]string `json:"specifications,omitempty" db:"specifications"`
	Tags           []string          `json:"tags,omitempty" db:"tags"`
	Featured       bool              `json:"featured" db:"featured"`
	Status         string            `json:"status" db:"status"`
	Ratings        float64           `json:"ratings" db:"ratings"`
	NumOfReviews   int               `json:"numOfReviews" db:"num_of_reviews"`
	Reviews        []Review          `json:"reviews,omitempty" db:"-"`
	CreatedByID    string            `json:"createdById" db:"created_by"`
	CreatedByName  string            `json:"createdByName,omitempty" db:"created_by_name"`
	Version        int64             `json:"-" db:"version"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at"`
}

// ProductInput carries the fields an admin supplies when creating a product.
type ProductInput struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	DiscountPrice  *float64          `json:"discountPrice,omitempty"`
	CategoryID     string            `json:"categoryId"`
	Brand          string            `json:"brand"`
	Stock          int               `json:"stock"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Featured       bool              `json:"featured"`
}

// ProductUpdate carries a partial update; nil fields are left untouched.
// The derived Ratings/NumOfReviews fields are deliberately absent so no
// update path can bypass the review-side recompute.
type ProductUpdate struct {
	Name           *string           `json:"name,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Price          *float64          `json:"price,omitempty"`
	DiscountPrice  *float64          `json:"discountPrice,omitempty"`
	CategoryID     *string           `json:"categoryId,omitempty"`
	Brand          *string           `json:"brand,omitempty"`
	Stock          *int              `json:"stock,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Featured       *bool             `json:"featured,omitempty"`
	Status         *string           `json:"status,omitempty"`
}

// Empty reports whether the update supplies no fields at all.
func (u *ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.DiscountPrice == nil && u.CategoryID == nil && u.Brand == nil &&
		u.Stock == nil && u.Specifications == nil && u.Tags == nil &&
		u.Featured == nil && u.Status == nil
}
