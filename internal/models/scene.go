package models

import (
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

// Scene is one acquisition's band reflectances aggregated over a farm.
type Scene struct {
	ID      string
	FarmID  string
	Date    time.Time
	Source  string // "sentinel2", "landsat8", "modis"
	Bands   spectral.Sample
	Indices []spectral.Name // empty means the configured defaults
	// Pre is the pre-event sample a dNBR is differenced against.
	Pre spectral.Sample
}

// Observation is the index values derived from a scene.
type Observation struct {
	FarmID    string
	SceneID   string
	Source    string
	Point     timeseries.Point
	CreatedAt time.Time
}
