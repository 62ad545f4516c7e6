package processing

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-farm-analytics/internal/config"
	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/repository"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/stream"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
	"github.com/mr1hm/go-farm-analytics/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockRepo implements the farm and observation repositories for testing
type mockRepo struct {
	mu           sync.Mutex
	farms        map[string]bool
	observations []*models.Observation
	addCount     atomic.Int64
}

func newMockRepo(farmIDs ...string) *mockRepo {
	r := &mockRepo{farms: make(map[string]bool)}
	for _, id := range farmIDs {
		r.farms[id] = true
	}
	return r
}

func (m *mockRepo) AddFarm(ctx context.Context, f *models.Farm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.farms[f.ID] = true
	return nil
}

func (m *mockRepo) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.farms[id] {
		return nil, repository.ErrNotFound
	}
	return &models.Farm{ID: id}, nil
}

func (m *mockRepo) FarmExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.farms[id], nil
}

func (m *mockRepo) ListFarms(ctx context.Context, opts repository.Filter) ([]models.Farm, error) {
	return nil, nil
}

func (m *mockRepo) DeleteFarm(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.farms[id]
	delete(m.farms, id)
	return ok, nil
}

func (m *mockRepo) AddObservation(ctx context.Context, o *models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, o)
	m.addCount.Add(1)
	return nil
}

func (m *mockRepo) ListObservations(ctx context.Context, farmID string, opts repository.Filter) (timeseries.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var series timeseries.Series
	for _, o := range m.observations {
		if o.FarmID == farmID {
			series = append(series, o.Point)
		}
	}
	return series, nil
}

func testConfig(workers, buffer int) *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			Count:      workers,
			BufferSize: buffer,
		},
		SceneFeed: config.SceneFeedConfig{
			PollInterval: time.Minute,
		},
		Analytics: config.AnalyticsConfig{
			SoilFactor:     spectral.DefaultSoilFactor,
			DefaultIndices: []spectral.Name{spectral.NDVI, spectral.NDWI, spectral.NBR},
		},
	}
}

func testScene(id, farmID string) *models.Scene {
	return &models.Scene{
		ID:     id,
		FarmID: farmID,
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Source: "sentinel2",
		Bands: spectral.Sample{
			spectral.Red:   0.1,
			spectral.Green: 0.2,
			spectral.NIR:   0.5,
			spectral.SWIR2: 0.15,
		},
	}
}

func TestManager_StartStop(t *testing.T) {
	mgr := NewManager(testConfig(2, 10), newMockRepo(), newMockRepo(), nil)

	ctx, cancel := context.WithCancel(context.Background())

	// Start should not block
	mgr.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	cancel()
	mgr.Stop()
}

func TestManager_ProcessDefaults(t *testing.T) {
	repo := newMockRepo("farm_1")
	b := stream.NewBroadcaster()
	defer b.Close()
	id, ch := b.Subscribe("farm_1")
	defer b.Unsubscribe(id)

	mgr := NewManager(testConfig(1, 1), repo, repo, b)

	obs, err := mgr.Process(context.Background(), testScene("s1", "farm_1"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(obs.Point.Values) != 3 {
		t.Errorf("expected the 3 default indices, got %v", obs.Point.Values)
	}
	if v := obs.Point.Values[spectral.NDVI]; math.Abs(v-0.4/0.6) > 1e-9 {
		t.Errorf("expected NDVI %.4f, got %.4f", 0.4/0.6, v)
	}
	if repo.addCount.Load() != 1 {
		t.Errorf("expected 1 stored observation, got %d", repo.addCount.Load())
	}

	select {
	case got := <-ch:
		if got.SceneID != "s1" {
			t.Errorf("expected broadcast of s1, got %s", got.SceneID)
		}
	default:
		t.Error("expected observation to be broadcast")
	}
}

func TestManager_ProcessSkipsFailingIndices(t *testing.T) {
	repo := newMockRepo("farm_1")
	mgr := NewManager(testConfig(1, 1), repo, repo, nil)

	s := testScene("s1", "farm_1")
	s.Indices = []spectral.Name{spectral.NDVI, spectral.NDMI} // NDMI needs SWIR1

	obs, err := mgr.Process(context.Background(), s)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, ok := obs.Point.Values[spectral.NDMI]; ok {
		t.Error("NDMI should have been skipped")
	}
	if _, ok := obs.Point.Values[spectral.NDVI]; !ok {
		t.Error("NDVI should have been computed")
	}
}

func TestManager_ProcessNoIndices(t *testing.T) {
	repo := newMockRepo("farm_1")
	mgr := NewManager(testConfig(1, 1), repo, repo, nil)

	s := testScene("s1", "farm_1")
	s.Indices = []spectral.Name{spectral.NDMI}

	if _, err := mgr.Process(context.Background(), s); !errors.Is(err, ErrNoIndices) {
		t.Errorf("expected ErrNoIndices, got %v", err)
	}
	if repo.addCount.Load() != 0 {
		t.Error("nothing should be stored")
	}
}

func TestManager_ProcessUnknownFarm(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(testConfig(1, 1), repo, repo, nil)

	if _, err := mgr.Process(context.Background(), testScene("s1", "ghost")); !errors.Is(err, ErrFarmNotFound) {
		t.Errorf("expected ErrFarmNotFound, got %v", err)
	}
}

func TestManager_ComputeDNBR(t *testing.T) {
	mgr := NewManager(testConfig(1, 1), newMockRepo(), newMockRepo(), nil)

	s := testScene("s1", "farm_1")
	s.Indices = []spectral.Name{spectral.DNBRName}
	s.Pre = spectral.Sample{spectral.NIR: 0.6, spectral.SWIR2: 0.1}

	values, errs := mgr.Compute(s)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := 0.5/0.7 - 0.35/0.65
	if math.Abs(values[spectral.DNBRName]-want) > 1e-9 {
		t.Errorf("expected dNBR %.4f, got %.4f", want, values[spectral.DNBRName])
	}

	s.Pre = nil
	_, errs = mgr.Compute(s)
	var formErr *spectral.FormError
	if !errors.As(errs[spectral.DNBRName], &formErr) {
		t.Errorf("expected FormError without a pre-event sample, got %v", errs[spectral.DNBRName])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.Scene)
		valid  bool
	}{
		{"complete", func(s *models.Scene) {}, true},
		{"missing farm", func(s *models.Scene) { s.FarmID = "" }, false},
		{"missing date", func(s *models.Scene) { s.Date = time.Time{} }, false},
		{"missing bands", func(s *models.Scene) { s.Bands = nil }, false},
		{"unknown index", func(s *models.Scene) { s.Indices = []spectral.Name{"FOO"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene("s1", "farm_1")
			tt.mutate(s)
			err := Validate(s)
			if tt.valid && err != nil {
				t.Errorf("expected valid scene, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidScene) {
				t.Errorf("expected ErrInvalidScene, got %v", err)
			}
		})
	}
}

func TestManager_ConcurrentSubmit(t *testing.T) {
	repo := newMockRepo("farm_1")
	mgr := NewManager(testConfig(4, 500), repo, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	var wg sync.WaitGroup
	numGoroutines := 10
	numPerGoroutine := 20

	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < numPerGoroutine; i++ {
				if err := mgr.Submit(testScene("s", "farm_1")); err != nil {
					t.Errorf("Submit failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	time.Sleep(200 * time.Millisecond)
	cancel()
	mgr.Stop()

	if got := repo.addCount.Load(); got != int64(numGoroutines*numPerGoroutine) {
		t.Errorf("expected %d observations, got %d", numGoroutines*numPerGoroutine, got)
	}
}

func TestManager_SubmitQueueFull(t *testing.T) {
	// not started, so the single slot stays occupied
	mgr := NewManager(testConfig(1, 1), newMockRepo(), newMockRepo(), nil)

	if err := mgr.Submit(testScene("s1", "farm_1")); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := mgr.Submit(testScene("s2", "farm_1")); !errors.Is(err, worker.ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if mgr.Pending() != 1 {
		t.Errorf("expected 1 pending scene, got %d", mgr.Pending())
	}
	mgr.Stop()
}

func TestManager_FeedPoller(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scenes": [
			{"id": "a", "farm_id": "farm_1", "date": "2024-06-01", "source": "sentinel2",
			 "bands": {"red": 0.1, "nir": 0.5}, "indices": ["ndvi"]},
			{"id": "b", "farm_id": "farm_1", "date": "not-a-date", "bands": {"red": 0.1}},
			{"id": "c", "farm_id": "farm_1", "date": "2024-06-11", "source": "landsat8",
			 "bands": {"red": 0.2, "nir": 0.4}, "indices": ["NDVI"]}
		]}`))
	}))
	defer srv.Close()

	repo := newMockRepo("farm_1")
	cfg := testConfig(1, 10)
	cfg.SceneFeed = config.SceneFeedConfig{
		Enabled:      true,
		URL:          srv.URL,
		PollInterval: 20 * time.Millisecond,
	}
	mgr := NewManager(cfg, repo, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)
	time.Sleep(150 * time.Millisecond)
	cancel()
	mgr.Stop()

	if requests.Load() < 2 {
		t.Errorf("expected repeated polls, got %d", requests.Load())
	}
	// the malformed scene is skipped and repeats are not requeued
	if got := repo.addCount.Load(); got != 2 {
		t.Errorf("expected 2 observations, got %d", got)
	}
}

func TestManager_FetchScenesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	mgr := NewManager(testConfig(1, 1), newMockRepo(), newMockRepo(), nil)
	if _, err := mgr.fetchScenes(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-200 response")
	}
	mgr.Stop()
}
