package domain

import (
	"time"
)

// Tenant is a client account. It owns a private collection of leads.
type Tenant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      string    `json:"company"`
	CreatedAt    time.Time `json:"created_at"`
}
