package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/config"
	"github.com/mr1hm/go-farm-analytics/internal/metrics"
	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/repository"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/stream"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
	"github.com/mr1hm/go-farm-analytics/internal/worker"
)

var (
	ErrInvalidScene = errors.New("invalid scene")
	ErrFarmNotFound = errors.New("farm not found")
	ErrNoIndices    = errors.New("no index could be computed")
)

type Manager struct {
	cfg          *config.Config
	farms        repository.FarmRepository
	observations repository.ObservationRepository
	broadcaster  *stream.Broadcaster
	pool         *worker.Pool[*models.Scene]
	client       *http.Client
	seen         map[string]struct{} // feed scene IDs already queued
	wg           sync.WaitGroup
}

func NewManager(cfg *config.Config, farms repository.FarmRepository, observations repository.ObservationRepository, broadcaster *stream.Broadcaster) *Manager {
	m := &Manager{
		cfg:          cfg,
		farms:        farms,
		observations: observations,
		broadcaster:  broadcaster,
		client:       &http.Client{Timeout: 15 * time.Second},
		seen:         make(map[string]struct{}),
	}
	m.pool = worker.NewPool(cfg.Worker.Count, cfg.Worker.BufferSize, func(ctx context.Context, s *models.Scene) error {
		_, err := m.Process(ctx, s)
		return err
	})
	return m
}

func (m *Manager) Start(ctx context.Context) {
	m.pool.Start(ctx)

	if m.cfg.SceneFeed.Enabled {
		m.wg.Add(1)
		go m.runPoller(ctx, m.cfg.SceneFeed.URL, m.cfg.SceneFeed.PollInterval)
	}
}

// Submit queues a scene for processing without blocking. It returns
// worker.ErrQueueFull when the backlog is at capacity.
func (m *Manager) Submit(s *models.Scene) error {
	if err := Validate(s); err != nil {
		return err
	}
	return m.pool.TrySubmit(s)
}

// Pending reports the number of queued scenes.
func (m *Manager) Pending() int {
	return m.pool.Pending()
}

// Process computes the scene's indices, stores them as an observation and
// broadcasts it. Indices that fail are logged and left out; the scene
// fails only if none succeed.
func (m *Manager) Process(ctx context.Context, s *models.Scene) (*models.Observation, error) {
	start := time.Now()
	defer func() { metrics.SceneDuration.Observe(time.Since(start).Seconds()) }()

	obs, err := m.process(ctx, s)
	if err != nil {
		metrics.ScenesProcessed.WithLabelValues(s.Source, "failed").Inc()
		slog.Error("error processing scene", "scene_id", s.ID, "farm_id", s.FarmID, "error", err)
		return nil, err
	}
	metrics.ScenesProcessed.WithLabelValues(s.Source, "ok").Inc()

	if m.broadcaster != nil {
		m.broadcaster.Broadcast(obs)
	}

	slog.Info("processed scene", "scene_id", s.ID, "farm_id", s.FarmID, "source", s.Source, "indices", len(obs.Point.Values))
	return obs, nil
}

func (m *Manager) process(ctx context.Context, s *models.Scene) (*models.Observation, error) {
	exists, err := m.farms.FarmExists(ctx, s.FarmID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFarmNotFound, s.FarmID)
	}

	values, errs := m.Compute(s)
	for name, err := range errs {
		metrics.IndexErrors.WithLabelValues(string(name)).Inc()
		slog.Debug("index skipped", "scene_id", s.ID, "index", name, "error", err)
	}
	if len(values) == 0 {
		return nil, ErrNoIndices
	}

	obs := &models.Observation{
		FarmID:  s.FarmID,
		SceneID: s.ID,
		Source:  s.Source,
		Point: timeseries.Point{
			Date:   s.Date,
			Values: values,
		},
		CreatedAt: time.Now(),
	}
	if err := m.observations.AddObservation(ctx, obs); err != nil {
		return nil, err
	}
	return obs, nil
}

// Compute evaluates the scene's requested indices, or the configured
// defaults when it names none. dNBR is taken against the scene's
// pre-event sample.
func (m *Manager) Compute(s *models.Scene) (map[spectral.Name]float64, map[spectral.Name]error) {
	names := s.Indices
	if len(names) == 0 {
		names = m.cfg.Analytics.DefaultIndices
	}

	list := make([]spectral.Name, 0, len(names))
	wantDNBR := s.Pre != nil
	for _, n := range names {
		if n == spectral.DNBRName {
			wantDNBR = true
			continue
		}
		list = append(list, n)
	}

	values, errs := spectral.ComputeMany(list, s.Bands, m.cfg.Analytics.Params())
	if wantDNBR {
		if s.Pre == nil {
			errs[spectral.DNBRName] = &spectral.FormError{Index: spectral.DNBRName, Kind: spectral.KindBitemporal}
		} else if v, err := spectral.DNBR(s.Pre, s.Bands); err != nil {
			errs[spectral.DNBRName] = err
		} else {
			values[spectral.DNBRName] = v
		}
	}
	return values, errs
}

func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("processing manager stopped")
}

// Validate checks the fields every scene needs before it is queued.
func Validate(s *models.Scene) error {
	switch {
	case s == nil:
		return fmt.Errorf("%w: missing", ErrInvalidScene)
	case s.FarmID == "":
		return fmt.Errorf("%w: farm_id is required", ErrInvalidScene)
	case s.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidScene)
	case len(s.Bands) == 0:
		return fmt.Errorf("%w: bands are required", ErrInvalidScene)
	}
	for _, n := range s.Indices {
		if _, ok := spectral.Lookup(n); !ok {
			return fmt.Errorf("%w: %w", ErrInvalidScene, &spectral.UnknownIndexError{Name: n})
		}
	}
	return nil
}
