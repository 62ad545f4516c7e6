package spectral

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Band names a reflectance band. Values are the JSON keys used by clients.
type Band string

const (
	Red     Band = "Red"
	Green   Band = "Green"
	Blue    Band = "Blue"
	NIR     Band = "NIR"
	RedEdge Band = "RedEdge"
	SWIR1   Band = "SWIR1"
	SWIR2   Band = "SWIR2"
)

var allBands = []Band{Red, Green, Blue, NIR, RedEdge, SWIR1, SWIR2}

// Bands returns every band a Sample may carry.
func Bands() []Band {
	out := make([]Band, len(allBands))
	copy(out, allBands)
	return out
}

// ParseBand matches a band name case-insensitively.
func ParseBand(s string) (Band, error) {
	for _, b := range allBands {
		if strings.EqualFold(string(b), s) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown band %q", s)
}

// Sample holds the reflectance values observed for one pixel or field
// aggregate. Values are not clamped.
type Sample map[Band]float64

// missing returns the bands from required that s does not carry, in order.
func (s Sample) missing(required []Band) []Band {
	var out []Band
	for _, b := range required {
		if _, ok := s[b]; !ok {
			out = append(out, b)
		}
	}
	return out
}

func (s Sample) require(index Name, required []Band) error {
	if m := s.missing(required); len(m) > 0 {
		return &MissingBandError{Index: index, Bands: m}
	}
	return nil
}

// Present lists the bands carried by s in a stable order.
func (s Sample) Present() []Band {
	out := make([]Band, 0, len(s))
	for b := range s {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseSample builds a Sample from client-supplied band names, matching
// them case-insensitively. Non-finite values are rejected.
func ParseSample(raw map[string]float64) (Sample, error) {
	s := make(Sample, len(raw))
	for k, v := range raw {
		b, err := ParseBand(k)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("band %s: value is not finite", b)
		}
		s[b] = v
	}
	return s, nil
}
