package geometry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var ErrUnsupportedGeometry = errors.New("geometry must be a Polygon")

// ParseGeoJSON reads a boundary from a GeoJSON Polygon geometry or a
// Feature wrapping one. Only the outer ring is used.
func ParseGeoJSON(data []byte) (Boundary, error) {
	var g orb.Geometry

	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		g = f.Geometry
	} else {
		geom, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("error decoding geojson: %w", err)
		}
		g = geom.Geometry()
	}

	poly, ok := g.(orb.Polygon)
	if !ok || len(poly) == 0 {
		return nil, ErrUnsupportedGeometry
	}
	return FromRing(poly[0])
}

// Feature wraps b as a GeoJSON Polygon feature.
func Feature(b Boundary, properties map[string]any) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{b.Ring()})
	for k, v := range properties {
		f.Properties[k] = v
	}
	return f
}

var ErrNoBoundary = errors.New("boundary is required")

// Decode reads a boundary from JSON given either as [[lat, lng], ...]
// pairs or as a GeoJSON Polygon geometry or Feature.
func Decode(raw []byte) (Boundary, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrNoBoundary
	}
	if raw[0] == '{' {
		return ParseGeoJSON(raw)
	}

	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("error decoding boundary: %w", err)
	}
	return FromPairs(pairs)
}
