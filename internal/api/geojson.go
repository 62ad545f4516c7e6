package api

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/mr1hm/go-farm-analytics/internal/analytics"
	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/models"
)

type farmJSON struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Crop      string            `json:"crop,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Boundary  [][]float64       `json:"boundary"`
	Summary   *geometry.Summary `json:"summary,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toFarmJSON(f *models.Farm) farmJSON {
	return farmJSON{
		ID:        f.ID,
		Name:      f.Name,
		Crop:      f.Crop,
		Notes:     f.Notes,
		Boundary:  f.Boundary.Pairs(),
		Summary:   analytics.FarmStatistics(f.Boundary),
		CreatedAt: f.CreatedAt,
	}
}

// toGeoJSON renders farms as Polygon features in (lng, lat) order.
func toGeoJSON(farms []models.Farm) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, f := range farms {
		props := map[string]any{
			"id":         f.ID,
			"name":       f.Name,
			"crop":       f.Crop,
			"created_at": f.CreatedAt.Format(time.RFC3339),
		}
		if s := analytics.FarmStatistics(f.Boundary); s != nil {
			props["area_hectares"] = s.AreaHectares
			props["perimeter_km"] = s.PerimeterKm
		}
		fc.Append(geometry.Feature(f.Boundary, props))
	}

	return fc
}
