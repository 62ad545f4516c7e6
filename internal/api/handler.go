package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/repository"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/stream"
)

// SceneSubmitter queues scenes for asynchronous processing.
type SceneSubmitter interface {
	Submit(s *models.Scene) error
	Pending() int
}

type Options struct {
	Params         spectral.Params
	DefaultIndices []spectral.Name
}

type Handler struct {
	farms        repository.FarmRepository
	observations repository.ObservationRepository
	scenes       SceneSubmitter
	broadcaster  *stream.Broadcaster
	opts         Options
}

func NewHandler(farms repository.FarmRepository, observations repository.ObservationRepository, scenes SceneSubmitter, broadcaster *stream.Broadcaster, opts Options) *Handler {
	return &Handler{
		farms:        farms,
		observations: observations,
		scenes:       scenes,
		broadcaster:  broadcaster,
		opts:         opts,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/indices", h.listIndices)
	api.GET("/sources", h.listSources)
	api.POST("/indices/compute", h.computeIndices)
	api.POST("/indices/dnbr", h.computeDNBR)
	api.POST("/geometry", h.measureGeometry)
	api.POST("/analysis", h.analyze)

	farms := api.Group("/farms")
	farms.POST("", h.createFarm)
	farms.GET("", h.listFarms)
	farms.GET("/:id", h.getFarm)
	farms.DELETE("/:id", h.deleteFarm)
	farms.POST("/:id/scenes", h.submitScene)
	farms.GET("/:id/observations", h.listObservations)
	farms.GET("/:id/statistics", h.farmStatistics)
	farms.GET("/:id/stream", h.streamObservations)
}

func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.scenes != nil {
		resp["pendingScenes"] = h.scenes.Pending()
	}
	if h.broadcaster != nil {
		resp["streams"] = h.broadcaster.SubscriberCount()
	}
	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
