package model

import "time"

// Category represents a product category.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// User is the slice of the user record this service reads for shaping
// responses (creator names, reviewer identity). Account management
// lives elsewhere.
type User struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Avatar string `json:"avatar,omitempty" db:"avatar"`
}
