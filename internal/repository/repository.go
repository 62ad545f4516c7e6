package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

var ErrNotFound = errors.New("not found")

type Filter struct {
	Limit   int
	Offset  int
	Since   *time.Time
	Until   *time.Time
	Indices []spectral.Name // empty means all
}

type FarmRepository interface {
	AddFarm(ctx context.Context, f *models.Farm) error
	GetFarm(ctx context.Context, id string) (*models.Farm, error)
	FarmExists(ctx context.Context, id string) (bool, error)
	ListFarms(ctx context.Context, opts Filter) ([]models.Farm, error)
	DeleteFarm(ctx context.Context, id string) (bool, error)
}

type ObservationRepository interface {
	AddObservation(ctx context.Context, o *models.Observation) error
	// ListObservations returns the farm's time series in ascending date
	// order. Limit keeps the most recent dates.
	ListObservations(ctx context.Context, farmID string, opts Filter) (timeseries.Series, error)
}
