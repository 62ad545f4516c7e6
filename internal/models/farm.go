package models

import (
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/geometry"
)

type Farm struct {
	ID        string
	Name      string
	Crop      string // wheat | corn | soybeans | etc.
	Notes     string
	Boundary  geometry.Boundary
	CreatedAt time.Time
}
