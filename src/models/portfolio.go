package models

import "time"

// Portfolio is a named grouping that owns zero or more stock trades.
// Deleting a portfolio deletes its trades.
type Portfolio struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DescriptionOrEmpty returns the description, or "" when none was given.
func (p Portfolio) DescriptionOrEmpty() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// PortfolioInput holds the caller-supplied portfolio fields. Nil pointers mean
// "not provided" on partial updates.
type PortfolioInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
