package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

func TestSummarize_Empty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries for nil, got %v", err)
	}
	if _, err := Summarize([]float64{math.NaN(), math.NaN()}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries for all-NaN, got %v", err)
	}
	if _, err := Summarize([]float64{math.Inf(1)}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries for +Inf, got %v", err)
	}
}

func TestSummarize_Constant(t *testing.T) {
	s, err := Summarize([]float64{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.StdDev != 0 {
		t.Errorf("expected stdDev 0, got %v", s.StdDev)
	}
	if s.Variability != VariabilityLow {
		t.Errorf("expected low variability, got %s", s.Variability)
	}
	if s.Trend != TrendStable {
		t.Errorf("expected stable trend, got %s", s.Trend)
	}
	if s.Mean != 0.5 || s.Median != 0.5 || s.Min != 0.5 || s.Max != 0.5 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestSummarize_Trend(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{"increasing", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}, TrendIncreasing},
		{"decreasing", []float64{0.9, 0.7, 0.5, 0.3}, TrendDecreasing},
		{"flat noise", []float64{0.50, 0.505, 0.495, 0.50}, TrendStable},
		{"single value", []float64{0.4}, TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Summarize(tc.values)
			if err != nil {
				t.Fatalf("Summarize failed: %v", err)
			}
			if s.Trend != tc.want {
				t.Errorf("expected %s, got %s (slope %v)", tc.want, s.Trend, s.Slope)
			}
		})
	}
}

func TestSummarize_Slope(t *testing.T) {
	got := Slope([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9})
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("expected slope 0.1, got %v", got)
	}
}

func TestMedian_UsesIndexHalfN(t *testing.T) {
	if got := Median([]float64{4, 1, 3, 2}); got != 3 {
		t.Errorf("expected sorted[2] = 3 for even length, got %v", got)
	}
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestSummarize_PopulationStdDev(t *testing.T) {
	s, err := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if math.Abs(s.StdDev-2) > 1e-9 {
		t.Errorf("expected population stdDev 2, got %v", s.StdDev)
	}
	if s.Mean != 5 {
		t.Errorf("expected mean 5, got %v", s.Mean)
	}
	if s.Count != 8 {
		t.Errorf("expected count 8, got %d", s.Count)
	}
}

func TestSummarize_FiltersNaN(t *testing.T) {
	s, err := Summarize([]float64{1, math.NaN(), 3})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Count != 2 || s.Mean != 2 || s.Min != 1 || s.Max != 3 {
		t.Errorf("unexpected summary after filtering: %+v", s)
	}
}

func TestClassifyVariability(t *testing.T) {
	cases := []struct {
		sd, mean float64
		want     Variability
	}{
		{0.01, 0.5, VariabilityLow},
		{0.1, 0.5, VariabilityMedium},
		{0.2, 0.5, VariabilityHigh},
		{0.1, 0, VariabilityUndefined},
		{0.2, -0.3, VariabilityLow},
	}
	for _, tc := range cases {
		if got := ClassifyVariability(tc.sd, tc.mean); got != tc.want {
			t.Errorf("ClassifyVariability(%v, %v): expected %s, got %s", tc.sd, tc.mean, tc.want, got)
		}
	}

	s, err := Summarize([]float64{-1, 1})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Variability != VariabilityUndefined {
		t.Errorf("expected undefined variability for zero mean, got %s", s.Variability)
	}

	// mean -0.3, sd 0.2: cv is -0.667, not 0.667
	s, err = Summarize([]float64{-0.5, -0.1})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Variability != VariabilityLow {
		t.Errorf("expected low variability for a negative mean, got %s", s.Variability)
	}
}

func TestSeries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	s := Series{
		{Date: day(3), Values: map[spectral.Name]float64{spectral.NDVI: 0.7}},
		{Date: day(1), Values: map[spectral.Name]float64{spectral.NDVI: 0.5, spectral.EVI: 0.3}},
		{Date: day(2), Values: map[spectral.Name]float64{spectral.EVI: 0.4}},
	}

	sorted := s.Sorted()
	if !sorted[0].Date.Equal(day(1)) || !sorted[2].Date.Equal(day(3)) {
		t.Errorf("series not sorted by date: %v", sorted)
	}
	if !s[0].Date.Equal(day(3)) {
		t.Error("Sorted must not reorder the receiver")
	}

	ndvi := sorted.Values(spectral.NDVI)
	if len(ndvi) != 3 || ndvi[0] != 0.5 || !math.IsNaN(ndvi[1]) || ndvi[2] != 0.7 {
		t.Errorf("unexpected NDVI values: %v", ndvi)
	}

	idx := s.Indices()
	if len(idx) != 2 || idx[0] != spectral.NDVI || idx[1] != spectral.EVI {
		t.Errorf("unexpected indices: %v", idx)
	}
}
