package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/metrics"
	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

const dateLayout = "2006-01-02"

type feedResponse struct {
	Scenes []feedScene `json:"scenes"`
}

type feedScene struct {
	ID      string             `json:"id"`
	FarmID  string             `json:"farm_id"`
	Date    string             `json:"date"` // YYYY-MM-DD
	Source  string             `json:"source"`
	Bands   map[string]float64 `json:"bands"`
	Pre     map[string]float64 `json:"pre,omitempty"`
	Indices []string           `json:"indices,omitempty"`
}

func (f feedScene) toScene() (*models.Scene, error) {
	date, err := time.Parse(dateLayout, f.Date)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %q: %w", f.Date, err)
	}
	bands, err := spectral.ParseSample(f.Bands)
	if err != nil {
		return nil, err
	}

	s := &models.Scene{
		ID:     f.ID,
		FarmID: f.FarmID,
		Date:   date,
		Source: f.Source,
		Bands:  bands,
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("%s_%s_%s", f.Source, f.FarmID, f.Date)
	}
	if len(f.Pre) > 0 {
		if s.Pre, err = spectral.ParseSample(f.Pre); err != nil {
			return nil, fmt.Errorf("pre: %w", err)
		}
	}
	for _, raw := range f.Indices {
		n, err := spectral.ParseName(raw)
		if err != nil {
			return nil, err
		}
		s.Indices = append(s.Indices, n)
	}
	return s, nil
}

func (m *Manager) runPoller(ctx context.Context, url string, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting scene feed poller", "url", url, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx, url)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scene feed poller shutting down")
			return
		case <-ticker.C:
			m.poll(ctx, url)
		}
	}
}

func (m *Manager) poll(ctx context.Context, url string) {
	slog.Debug("polling scene feed", "url", url)

	scenes, err := m.fetchScenes(ctx, url)
	if err != nil {
		metrics.FeedPollErrors.Inc()
		slog.Error("scene feed poll failed", "error", err)
		return
	}

	queued := 0
	for _, s := range scenes {
		if _, ok := m.seen[s.ID]; ok {
			continue
		}
		if err := Validate(s); err != nil {
			slog.Warn("skipping feed scene", "scene_id", s.ID, "error", err)
			continue
		}
		if err := m.pool.Submit(ctx, s); err != nil {
			slog.Warn("scene feed poll interrupted", "error", err)
			return
		}
		m.seen[s.ID] = struct{}{}
		queued++
	}

	slog.Debug("scene feed poll complete", "count", len(scenes), "queued", queued)
}

func (m *Manager) fetchScenes(ctx context.Context, url string) ([]*models.Scene, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	scenes := make([]*models.Scene, 0, len(data.Scenes))
	for _, f := range data.Scenes {
		s, err := f.toScene()
		if err != nil {
			slog.Warn("skipping malformed feed scene", "scene_id", f.ID, "error", err)
			continue
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}
