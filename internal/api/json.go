package api

import (
	"math"
	"strings"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

// nullable maps values JSON cannot carry (NaN, ±Inf) to null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullableValues(values map[spectral.Name]float64) map[spectral.Name]*float64 {
	out := make(map[spectral.Name]*float64, len(values))
	for n, v := range values {
		out[n] = nullable(v)
	}
	return out
}

func parseIndices(list string) ([]spectral.Name, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	return spectral.ParseNames(list)
}
