// Package analytics composes the geometry and time-series engines into the
// summaries rendered for a farm. It holds no state and is safe for
// concurrent use.
package analytics

import (
	"errors"
	"log/slog"

	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

// Input is everything the façade needs. Boundary may be nil when the user
// has not drawn one yet; Indices lists the names actually present in Series.
// BoundaryErr carries a decode failure from the caller so the report can say
// why the farm summary is missing.
type Input struct {
	Boundary    geometry.Boundary
	BoundaryErr error
	Series      timeseries.Series
	Indices     []spectral.Name
}

// Report bundles the farm statistics and the analysis statistics. Simple is
// nil when there is no farm summary; FarmOmitted says why a supplied
// boundary produced none. Omitted explains indices that were requested but
// not summarized.
type Report struct {
	Farm        *geometry.Summary                       `json:"farm,omitempty"`
	FarmOmitted string                                  `json:"farmOmitted,omitempty"`
	Simple      *bool                                   `json:"simple,omitempty"`
	Analysis    map[spectral.Name]timeseries.Statistics `json:"analysis"`
	Omitted     map[spectral.Name]string                `json:"omitted,omitempty"`
}

// FarmStatistics returns the geometry summary of b, or nil when b is absent
// or invalid.
func FarmStatistics(b geometry.Boundary) *geometry.Summary {
	s, _ := farmStatistics(b)
	return s
}

func farmStatistics(b geometry.Boundary) (*geometry.Summary, error) {
	if b == nil {
		return nil, nil
	}
	s, err := geometry.Summarize(b)
	if err != nil {
		slog.Debug("farm statistics omitted", "error", err)
		return nil, err
	}
	return &s, nil
}

// AnalysisStatistics summarizes each listed index over series. Indices with
// no valid value are left out of the result.
func AnalysisStatistics(series timeseries.Series, indices []spectral.Name) map[spectral.Name]timeseries.Statistics {
	out, _ := analysisStatistics(series, indices)
	return out
}

func analysisStatistics(series timeseries.Series, indices []spectral.Name) (map[spectral.Name]timeseries.Statistics, map[spectral.Name]string) {
	out := make(map[spectral.Name]timeseries.Statistics, len(indices))
	omitted := make(map[spectral.Name]string)

	ordered := series.Sorted()
	for _, name := range indices {
		if _, dup := out[name]; dup {
			continue
		}
		s, err := timeseries.Summarize(ordered.Values(name))
		if err != nil {
			if errors.Is(err, timeseries.ErrEmptySeries) {
				omitted[name] = "no valid values"
			} else {
				omitted[name] = err.Error()
			}
			continue
		}
		out[name] = s
	}
	return out, omitted
}

// Analyze builds the full report for in. When in.Indices is empty every
// index present in the series is summarized.
func Analyze(in Input) Report {
	indices := in.Indices
	if len(indices) == 0 {
		indices = in.Series.Indices()
	}

	analysis, omitted := analysisStatistics(in.Series, indices)
	farm, err := farmStatistics(in.Boundary)
	if err == nil && in.BoundaryErr != nil && !errors.Is(in.BoundaryErr, geometry.ErrNoBoundary) {
		err = in.BoundaryErr
	}

	r := Report{
		Farm:     farm,
		Analysis: analysis,
	}
	if err != nil {
		r.FarmOmitted = err.Error()
	}
	if r.Farm != nil {
		simple := geometry.IsSimple(in.Boundary)
		r.Simple = &simple
	}
	if len(omitted) > 0 {
		r.Omitted = omitted
	}
	return r
}
