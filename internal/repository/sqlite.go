package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
	// fixed width so that text ordering matches time ordering
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS farms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			crop TEXT,
			notes TEXT,
			boundary TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS observations (
			farm_id TEXT NOT NULL,
			date TEXT NOT NULL,
			index_name TEXT NOT NULL,
			value REAL,
			scene_id TEXT,
			source TEXT,
			created_at TEXT NOT NULL,
			PRIMARY KEY (farm_id, date, index_name),
			FOREIGN KEY (farm_id) REFERENCES farms(id)
		);

		CREATE INDEX IF NOT EXISTS idx_farms_created_at ON farms(created_at);
		CREATE INDEX IF NOT EXISTS idx_observations_farm_date ON observations(farm_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
