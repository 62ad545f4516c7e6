package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

// Point holds the index values observed on one date. An index may be
// absent, or NaN when its formula had no data.
type Point struct {
	Date   time.Time
	Values map[spectral.Name]float64
}

// Series is a sequence of points in ascending date order.
type Series []Point

// Sorted returns a date-ordered copy of s.
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Values extracts name across the series in order. Dates where the index
// is absent are reported as NaN so positions stay aligned with dates.
func (s Series) Values(name spectral.Name) []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		v, ok := p.Values[name]
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Indices lists the index names that appear anywhere in s, in registry order.
func (s Series) Indices() []spectral.Name {
	seen := make(map[spectral.Name]bool)
	for _, p := range s {
		for n := range p.Values {
			seen[n] = true
		}
	}
	var out []spectral.Name
	for _, n := range spectral.Names() {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out
}
