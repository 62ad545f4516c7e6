package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/models"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

// AddObservation stores every index value of o. A later observation for
// the same farm, date and index replaces the earlier one. NaN is stored as
// NULL.
func (s *SQLiteDB) AddObservation(ctx context.Context, o *models.Observation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO observations (farm_id, date, index_name, value, scene_id, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	date := o.Point.Date.UTC().Format(dateLayout)
	created := o.CreatedAt.UTC().Format(timestampLayout)
	for name, v := range o.Point.Values {
		value := sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
		if _, err := stmt.ExecContext(ctx, o.FarmID, date, string(name), value, o.SceneID, o.Source, created); err != nil {
			return fmt.Errorf("error inserting %s for farm %s: %w", name, o.FarmID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDB) ListObservations(ctx context.Context, farmID string, opts Filter) (timeseries.Series, error) {
	query := `SELECT date, index_name, value FROM observations WHERE farm_id = ?`
	args := []any{farmID}

	if opts.Since != nil {
		query += ` AND date >= ?`
		args = append(args, opts.Since.UTC().Format(dateLayout))
	}
	if opts.Until != nil {
		query += ` AND date <= ?`
		args = append(args, opts.Until.UTC().Format(dateLayout))
	}
	if len(opts.Indices) > 0 {
		placeholders := make([]string, len(opts.Indices))
		for i, n := range opts.Indices {
			placeholders[i] = "?"
			args = append(args, string(n))
		}
		query += ` AND index_name IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY date ASC, index_name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing observations of %s: %w", farmID, err)
	}
	defer rows.Close()

	var series timeseries.Series
	for rows.Next() {
		var (
			date, name string
			value      sql.NullFloat64
		)
		if err := rows.Scan(&date, &name, &value); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("error parsing observation date %q: %w", date, err)
		}

		if len(series) == 0 || !series[len(series)-1].Date.Equal(d) {
			series = append(series, timeseries.Point{Date: d, Values: make(map[spectral.Name]float64)})
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		series[len(series)-1].Values[spectral.Name(name)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if opts.Limit > 0 && len(series) > opts.Limit {
		series = series[len(series)-opts.Limit:]
	}
	return series, nil
}
