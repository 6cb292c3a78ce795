package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleProducts creates a gzipped NDJSON seed file with a
// small catalogue for local runs (SEED_ENABLED=true SEED_FILE=...).
func main() {
	dataDir := "data/seeds"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	discount := func(v float64) *float64 { return &v }

	products := []map[string]any{
		{
			"name": "Aurora Wireless Headphones", "description": "Over-ear wireless headphones with active noise cancelling",
			"price": 199.99, "discountPrice": discount(149.99), "brand": "Aurora", "stock": 120,
			"specifications": map[string]string{"battery": "30h", "weight": "250g"},
			"tags":           []string{"audio", "wireless", "headphones"}, "featured": true,
			"categoryName": "Electronics", "categorySlug": "electronics",
		},
		{
			"name": "Trailblazer Hiking Boots", "description": "Waterproof boots for all-terrain hiking",
			"price": 129.50, "brand": "Trailblazer", "stock": 48,
			"specifications": map[string]string{"material": "leather", "waterproof": "yes"},
			"tags":           []string{"outdoor", "hiking", "boots"}, "featured": false,
			"categoryName": "Outdoor", "categorySlug": "outdoor",
		},
		{
			"name": "Nimbus Espresso Machine", "description": "Compact 15-bar espresso machine with milk frother",
			"price": 289.00, "discountPrice": discount(249.00), "brand": "Nimbus", "stock": 22,
			"specifications": map[string]string{"pressure": "15 bar", "capacity": "1.2L"},
			"tags":           []string{"kitchen", "coffee", "espresso"}, "featured": true,
			"categoryName": "Home & Kitchen", "categorySlug": "home-kitchen",
		},
		{
			"name": "Drift Mechanical Keyboard", "description": "Hot-swappable mechanical keyboard with RGB backlight",
			"price": 89.99, "brand": "Drift", "stock": 300,
			"specifications": map[string]string{"switches": "tactile", "layout": "TKL"},
			"tags":           []string{"keyboard", "mechanical", "gaming"}, "featured": false,
			"categoryName": "Electronics", "categorySlug": "electronics",
		},
	}

	filePath := filepath.Join(dataDir, "products.ndjson.gz")
	if err := createSeedFile(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func createSeedFile(filePath string, products []map[string]any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	enc := json.NewEncoder(gz)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("failed to encode product: %w", err)
		}
	}

	return nil
}
