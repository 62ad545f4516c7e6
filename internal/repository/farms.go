package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/models"
)

func (s *SQLiteDB) AddFarm(ctx context.Context, f *models.Farm) error {
	boundary, err := json.Marshal(f.Boundary.Pairs())
	if err != nil {
		return fmt.Errorf("error encoding boundary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO farms (id, name, crop, notes, boundary, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Crop, f.Notes, string(boundary), f.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("error inserting farm %s: %w", f.ID, err)
	}
	return nil
}

func (s *SQLiteDB) GetFarm(ctx context.Context, id string) (*models.Farm, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, crop, notes, boundary, created_at FROM farms WHERE id = ?`, id)

	f, err := scanFarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *SQLiteDB) FarmExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM farms WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("error checking farm %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) ListFarms(ctx context.Context, opts Filter) ([]models.Farm, error) {
	query := `SELECT id, name, crop, notes, boundary, created_at FROM farms`
	var args []any

	if opts.Since != nil {
		query += ` WHERE created_at >= ?`
		args = append(args, opts.Since.UTC().Format(timestampLayout))
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing farms: %w", err)
	}
	defer rows.Close()

	var farms []models.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		farms = append(farms, *f)
	}
	return farms, rows.Err()
}

func (s *SQLiteDB) DeleteFarm(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM observations WHERE farm_id = ?`, id); err != nil {
		return false, fmt.Errorf("error deleting observations of %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM farms WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting farm %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFarm(sc scanner) (*models.Farm, error) {
	var (
		f                   models.Farm
		crop, notes         sql.NullString
		boundary, createdAt string
	)
	if err := sc.Scan(&f.ID, &f.Name, &crop, &notes, &boundary, &createdAt); err != nil {
		return nil, err
	}
	f.Crop = crop.String
	f.Notes = notes.String

	var pairs [][]float64
	if err := json.Unmarshal([]byte(boundary), &pairs); err != nil {
		return nil, fmt.Errorf("error decoding boundary of %s: %w", f.ID, err)
	}
	// stored boundaries were validated on insert
	b := make(geometry.Boundary, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("malformed vertex %d in boundary of %s", i, f.ID)
		}
		b[i] = geometry.Coordinate{Lat: p[0], Lng: p[1]}
	}
	f.Boundary = b

	t, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at of %s: %w", f.ID, err)
	}
	f.CreatedAt = t
	return &f, nil
}
