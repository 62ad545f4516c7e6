package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"github.com/mr1hm/go-farm-analytics/internal/analytics"
	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

type geometryRequest struct {
	Boundary json.RawMessage `json:"boundary"`
}

type geometryResponse struct {
	Summary geometry.Summary `json:"summary"`
	Simple  bool             `json:"simple"`
	Feature *geojson.Feature `json:"feature"`
}

func (h *Handler) measureGeometry(c *gin.Context) {
	var req geometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := geometry.Decode(req.Boundary)
	if err != nil {
		badRequest(c, err)
		return
	}

	summary, err := geometry.Summarize(b)
	if err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, geometryResponse{
		Summary: summary,
		Simple:  geometry.IsSimple(b),
		Feature: geometry.Feature(b, map[string]any{"areaHectares": summary.AreaHectares}),
	})
}

type analysisRequest struct {
	Boundary json.RawMessage   `json:"boundary"`
	Series   timeseries.Series `json:"series"`
	Indices  []string          `json:"indices"`
}

// analyze runs the analytics report over a client-supplied boundary and
// series. The boundary is optional; one that cannot be measured is left out
// of the report rather than failing the request.
func (h *Handler) analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	in := analytics.Input{Series: req.Series}
	in.Boundary, in.BoundaryErr = geometry.Decode(req.Boundary)

	for _, raw := range req.Indices {
		n, err := spectral.ParseName(raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		in.Indices = append(in.Indices, n)
	}

	c.JSON(http.StatusOK, analytics.Analyze(in))
}
