// Package seed loads catalogue seed files (gzipped NDJSON, one product
// record per line) from the local file system or S3 and imports them
// into the store at startup.
package seed

import "context"

// Record is one product line in a seed file.
type Record struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	DiscountPrice  *float64          `json:"discountPrice,omitempty"`
	Brand          string            `json:"brand"`
	Stock          int               `json:"stock"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Featured       bool              `json:"featured"`
	CategoryName   string            `json:"categoryName"`
	CategorySlug   string            `json:"categorySlug"`
}

// Loader reads a seed file and returns its records.
type Loader interface {
	Load(ctx context.Context, path string) ([]Record, error)
}
