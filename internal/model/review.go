package model

import "time"

// Review represents a single customer review of a product. Name is a
// snapshot of the reviewer's display name at submission time; the
// ReviewerName/ReviewerAvatar fields are resolved from the user record
// on single-product reads.
type Review struct {
	ID             string    `json:"id" db:"id"`
	ProductID      string    `json:"productId" db:"product_id"`
	UserID         string    `json:"userId" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Rating         int       `json:"rating" db:"rating"`
	Comment        string    `json:"comment" db:"comment"`
	ReviewerName   string    `json:"reviewerName,omitempty" db:"reviewer_name"`
	ReviewerAvatar string    `json:"reviewerAvatar,omitempty" db:"reviewer_avatar"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ReviewInput is the request body for submitting a review. The caller
// identity arrives separately from the identity collaborator.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
