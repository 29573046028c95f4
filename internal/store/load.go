package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kamerdata/kamerarchief/internal/model"
)

type LoadStore struct {
	db *sql.DB
}

func NewLoadStore(db *sql.DB) *LoadStore {
	return &LoadStore{db: db}
}

const loadCols = `id, file, fingerprint, rows, errors, warnings, infos, status, message, loaded_at`

func scanLoad(scanner interface{ Scan(...any) error }) (*model.DatasetLoad, error) {
	var l model.DatasetLoad
	err := scanner.Scan(&l.ID, &l.File, &l.Fingerprint, &l.Rows, &l.Errors, &l.Warnings, &l.Infos,
		&l.Status, &l.Message, &l.LoadedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LoadStore) Create(l model.DatasetLoad) error {
	if l.LoadedAt.IsZero() {
		l.LoadedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO dataset_loads (id, file, fingerprint, rows, errors, warnings, infos, status, message, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.File, l.Fingerprint, l.Rows, l.Errors, l.Warnings, l.Infos, l.Status, l.Message, l.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("create dataset load: %w", err)
	}
	return nil
}

// Latest returns the most recent load for one file, or nil when the file has
// never been ingested.
func (s *LoadStore) Latest(file string) (*model.DatasetLoad, error) {
	row := s.db.QueryRow(
		`SELECT `+loadCols+` FROM dataset_loads WHERE file = ? ORDER BY loaded_at DESC, id DESC LIMIT 1`,
		file,
	)
	l, err := scanLoad(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest load: %w", err)
	}
	return l, nil
}

func (s *LoadStore) Recent(limit int) ([]model.DatasetLoad, error) {
	rows, err := s.db.Query(
		`SELECT `+loadCols+` FROM dataset_loads ORDER BY loaded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent loads: %w", err)
	}
	defer rows.Close()

	var loads []model.DatasetLoad
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan load: %w", err)
		}
		loads = append(loads, *l)
	}
	return loads, rows.Err()
}
