package domain

import "time"

// Package is a tour package owned by the catalog service.
// CostPrice is internal margin data and must never reach public listings.
type Package struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DurationDays    int       `json:"duration_days"`
	MaxParticipants int       `json:"max_participants"`
	Location        string    `json:"location"`
	Includes        []string  `json:"includes"`
	AvailableFrom   time.Time `json:"available_from"`
	AvailableTo     time.Time `json:"available_to"`
	IsActive        bool      `json:"is_active"`
	CostPrice       float64   `json:"cost_price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PackageUpdate carries a partial update: only non-nil fields overwrite.
type PackageUpdate struct {
	Name            *string
	Description     *string
	Price           *float64
	DurationDays    *int
	MaxParticipants *int
	Location        *string
	Includes        *[]string
	AvailableFrom   *time.Time
	AvailableTo     *time.Time
	CostPrice       *float64
}
