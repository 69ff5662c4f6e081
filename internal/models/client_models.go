package models

import "time"

// Client represents a customer of the clinic.
// Deactivation is a soft delete: the row is kept with is_active = false and
// is excluded from default listings and direct lookups.
type Client struct {
	ID         int64     `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	MiddleName *string   `json:"middle_name" db:"middle_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      *string   `json:"email" db:"email"`
	Phone      *string   `json:"phone" db:"phone"`
	Address    *string   `json:"address" db:"address"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
