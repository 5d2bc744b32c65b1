package model

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Base
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	Description     string    `db:"description" json:"description"`
	Price           float64   `db:"price" json:"price"`
	Duration        int       `db:"duration" json:"duration"` // in minutes
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TotalDuration sums service durations in minutes. When a booking covers
// several services the combined duration drives the slot length.
func TotalDuration(services []*Service) int {
	var total int
	for _, s := range services {
		total += s.Duration
	}
	return total
}
