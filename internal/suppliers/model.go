package suppliers

import (
	"time"
)

// Supplier represents a vendor a shop owner buys stock from.
type Supplier struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"user_id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Rating        int       `json:"rating"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilters narrows and orders supplier listings.
type ListFilters struct {
	Search  string
	SortBy  string
	SortDir string
}
