package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

func (h *Handler) listIndices(c *gin.Context) {
	catalog := spectral.Catalog()

	if cat := c.Query("category"); cat != "" {
		filtered := catalog[:0]
		for _, f := range catalog {
			if string(f.Category) == cat {
				filtered = append(filtered, f)
			}
		}
		catalog = filtered
	}

	c.JSON(http.StatusOK, gin.H{"indices": catalog})
}

func (h *Handler) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": spectral.Sources(),
		"bands":   spectral.Bands(),
	})
}

type computeRequest struct {
	Bands      map[string]float64 `json:"bands"`
	Indices    []string           `json:"indices"`
	SoilFactor *float64           `json:"soilFactor"`
}

type computeResponse struct {
	Values map[spectral.Name]*float64 `json:"values"`
	Errors map[spectral.Name]string   `json:"errors,omitempty"`
}

func (h *Handler) computeIndices(c *gin.Context) {
	var req computeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sample, err := spectral.ParseSample(req.Bands)
	if err != nil {
		badRequest(c, err)
		return
	}

	names := h.opts.DefaultIndices
	if len(req.Indices) > 0 {
		names = make([]spectral.Name, 0, len(req.Indices))
		for _, raw := range req.Indices {
			n, err := spectral.ParseName(raw)
			if err != nil {
				badRequest(c, err)
				return
			}
			names = append(names, n)
		}
	}

	params := h.opts.Params
	if req.SoilFactor != nil {
		if *req.SoilFactor < 0 {
			badRequest(c, fmt.Errorf("soilFactor must be non-negative, got %g", *req.SoilFactor))
			return
		}
		params.SoilFactor = *req.SoilFactor
	}

	values, errs := spectral.ComputeMany(names, sample, params)
	resp := computeResponse{Values: nullableValues(values)}
	if len(errs) > 0 {
		resp.Errors = make(map[spectral.Name]string, len(errs))
		for n, err := range errs {
			resp.Errors[n] = err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

type dnbrRequest struct {
	Pre  map[string]float64 `json:"pre" binding:"required"`
	Post map[string]float64 `json:"post" binding:"required"`
}

func (h *Handler) computeDNBR(c *gin.Context) {
	var req dnbrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pre, err := spectral.ParseSample(req.Pre)
	if err != nil {
		badRequest(c, fmt.Errorf("pre: %w", err))
		return
	}
	post, err := spectral.ParseSample(req.Post)
	if err != nil {
		badRequest(c, fmt.Errorf("post: %w", err))
		return
	}

	v, err := spectral.DNBR(pre, post)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": spectral.DNBRName, "value": nullable(v)})
}
