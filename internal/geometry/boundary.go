package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Boundary is an open polygon ring: the closing edge from the last vertex
// back to the first is implied and must not be repeated by callers. The
// measurements tolerate an explicit closing vertex (it adds a zero-length
// edge), but NewBoundary strips it so the centroid is not biased.
type Boundary []Coordinate

const minVertices = 3

// NewBoundary validates coords and returns them as an open ring.
func NewBoundary(coords []Coordinate) (Boundary, error) {
	b := make(Boundary, len(coords))
	copy(b, coords)
	if len(b) > minVertices && b[0] == b[len(b)-1] {
		b = b[:len(b)-1]
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromPairs builds a boundary from [lat, lng] pairs, the order the map
// widgets emit.
func FromPairs(pairs [][]float64) (Boundary, error) {
	coords := make([]Coordinate, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("vertex %d: expected [lat, lng], got %d values", i, len(p))
		}
		coords = append(coords, Coordinate{Lat: p[0], Lng: p[1]})
	}
	return NewBoundary(coords)
}

// Pairs returns the boundary as [lat, lng] pairs.
func (b Boundary) Pairs() [][]float64 {
	out := make([][]float64, len(b))
	for i, c := range b {
		out[i] = []float64{c.Lat, c.Lng}
	}
	return out
}

// Validate checks the vertex count and coordinate ranges.
func (b Boundary) Validate() error {
	if len(b) < minVertices {
		return &InsufficientPointsError{Got: len(b)}
	}
	for i, c := range b {
		if !c.Valid() {
			return &InvalidCoordinateError{Index: i, Coordinate: c}
		}
	}
	return nil
}

// Ring converts the boundary to a closed orb ring in (lng, lat) order.
func (b Boundary) Ring() orb.Ring {
	r := make(orb.Ring, 0, len(b)+1)
	for _, c := range b {
		r = append(r, orb.Point{c.Lng, c.Lat})
	}
	if len(b) > 0 {
		r = append(r, r[0])
	}
	return r
}

// FromRing converts an orb ring in (lng, lat) order to a boundary.
func FromRing(r orb.Ring) (Boundary, error) {
	coords := make([]Coordinate, len(r))
	for i, p := range r {
		coords[i] = Coordinate{Lat: p.Lat(), Lng: p.Lon()}
	}
	return NewBoundary(coords)
}
