package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-farm-analytics/internal/analytics"
	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/processing"
	"github.com/mr1hm/go-farm-analytics/internal/repository"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
	"github.com/mr1hm/go-farm-analytics/internal/worker"
)

const (
	defaultFarmLimit = 20
	maxLimit         = 500
)

type createFarmRequest struct {
	Name     string          `json:"name" binding:"required"`
	Crop     string          `json:"crop"`
	Notes    string          `json:"notes"`
	Boundary json.RawMessage `json:"boundary"`
}

func (h *Handler) createFarm(c *gin.Context) {
	var req createFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		badRequest(c, errors.New("name is required"))
		return
	}
	b, err := geometry.Decode(req.Boundary)
	if err != nil {
		badRequest(c, err)
		return
	}

	farm := &models.Farm{
		ID:        uuid.NewString(),
		Name:      name,
		Crop:      req.Crop,
		Notes:     req.Notes,
		Boundary:  b,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.farms.AddFarm(c.Request.Context(), farm); err != nil {
		slog.Error("error adding farm", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create farm"})
		return
	}

	slog.Info("added farm", "farm_id", farm.ID, "vertices", len(b))
	c.JSON(http.StatusCreated, toFarmJSON(farm))
}

func (h *Handler) listFarms(c *gin.Context) {
	filter := repository.Filter{
		Limit: defaultFarmLimit,
	}

	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxLimit {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}
	if s := c.Query("since"); s != "" {
		if t, err := timeseries.ParseDate(s); err == nil {
			filter.Since = &t
		}
	}

	farms, err := h.farms.ListFarms(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch farms",
		})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, toGeoJSON(farms))
}

// loadFarm fetches the :id farm, writing the error response when it fails.
func (h *Handler) loadFarm(c *gin.Context) (*models.Farm, bool) {
	farm, err := h.farms.GetFarm(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "farm not found"})
		return nil, false
	}
	if err != nil {
		slog.Error("error fetching farm", "farm_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch farm"})
		return nil, false
	}
	return farm, true
}

func (h *Handler) getFarm(c *gin.Context) {
	farm, ok := h.loadFarm(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toFarmJSON(farm))
}

func (h *Handler) deleteFarm(c *gin.Context) {
	deleted, err := h.farms.DeleteFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("error deleting farm", "farm_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete farm"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "farm not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type sceneRequest struct {
	ID      string             `json:"id"`
	Date    string             `json:"date" binding:"required"`
	Source  string             `json:"source"`
	Bands   map[string]float64 `json:"bands" binding:"required"`
	Pre     map[string]float64 `json:"pre"`
	Indices []string           `json:"indices"`
}

func (h *Handler) submitScene(c *gin.Context) {
	farm, ok := h.loadFarm(c)
	if !ok {
		return
	}

	var req sceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	scene, err := req.toScene(farm.ID)
	if err != nil {
		badRequest(c, err)
		return
	}

	err = h.scenes.Submit(scene)
	switch {
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scene queue unavailable, retry later"})
		return
	case errors.Is(err, processing.ErrInvalidScene):
		badRequest(c, err)
		return
	case err != nil:
		slog.Error("error submitting scene", "scene_id", scene.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit scene"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"sceneId": scene.ID,
		"farmId":  farm.ID,
		"status":  "queued",
	})
}

func (r sceneRequest) toScene(farmID string) (*models.Scene, error) {
	date, err := timeseries.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	bands, err := spectral.ParseSample(r.Bands)
	if err != nil {
		return nil, err
	}

	s := &models.Scene{
		ID:     r.ID,
		FarmID: farmID,
		Date:   date,
		Source: r.Source,
		Bands:  bands,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Source == "" {
		s.Source = "manual"
	}
	if len(r.Pre) > 0 {
		if s.Pre, err = spectral.ParseSample(r.Pre); err != nil {
			return nil, err
		}
	}
	for _, raw := range r.Indices {
		n, err := spectral.ParseName(raw)
		if err != nil {
			return nil, err
		}
		s.Indices = append(s.Indices, n)
	}
	return s, nil
}

// observationFilter reads since, until, limit and indices query params.
func observationFilter(c *gin.Context) (repository.Filter, error) {
	var filter repository.Filter

	if s := c.Query("since"); s != "" {
		t, err := timeseries.ParseDate(s)
		if err != nil {
			return filter, err
		}
		filter.Since = &t
	}
	if u := c.Query("until"); u != "" {
		t, err := timeseries.ParseDate(u)
		if err != nil {
			return filter, err
		}
		filter.Until = &t
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxLimit {
			filter.Limit = lim
		}
	}

	indices, err := parseIndices(c.Query("indices"))
	if err != nil {
		return filter, err
	}
	filter.Indices = indices
	return filter, nil
}

func (h *Handler) listObservations(c *gin.Context) {
	farm, ok := h.loadFarm(c)
	if !ok {
		return
	}

	filter, err := observationFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	series, err := h.observations.ListObservations(c.Request.Context(), farm.ID, filter)
	if err != nil {
		slog.Error("error listing observations", "farm_id", farm.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch observations"})
		return
	}

	if series == nil {
		series = timeseries.Series{}
	}
	c.JSON(http.StatusOK, gin.H{
		"farmId":       farm.ID,
		"observations": series,
	})
}

func (h *Handler) farmStatistics(c *gin.Context) {
	farm, ok := h.loadFarm(c)
	if !ok {
		return
	}

	filter, err := observationFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	series, err := h.observations.ListObservations(c.Request.Context(), farm.ID, filter)
	if err != nil {
		slog.Error("error listing observations", "farm_id", farm.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch observations"})
		return
	}

	report := analytics.Analyze(analytics.Input{
		Boundary: farm.Boundary,
		Series:   series,
		Indices:  filter.Indices,
	})
	c.JSON(http.StatusOK, report)
}
