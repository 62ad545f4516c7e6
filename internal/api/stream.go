package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-farm-analytics/internal/metrics"
	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

const heartbeatInterval = 30 * time.Second

type observationEvent struct {
	FarmID      string           `json:"farmId"`
	SceneID     string           `json:"sceneId"`
	Source      string           `json:"source"`
	Observation timeseries.Point `json:"observation"`
}

func toObservationEvent(o *models.Observation) observationEvent {
	return observationEvent{
		FarmID:      o.FarmID,
		SceneID:     o.SceneID,
		Source:      o.Source,
		Observation: o.Point,
	}
}

// streamObservations pushes the farm's new observations as server-sent
// events until the client disconnects or the broadcaster closes.
func (h *Handler) streamObservations(c *gin.Context) {
	farm, ok := h.loadFarm(c)
	if !ok {
		return
	}
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming disabled"})
		return
	}

	id, ch := h.broadcaster.Subscribe(farm.ID)
	defer h.broadcaster.Unsubscribe(id)

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"farmId": farm.ID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case obs, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("observation", toObservationEvent(obs))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
