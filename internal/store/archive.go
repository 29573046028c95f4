package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kamerdata/kamerarchief/internal/model"
)

type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

const archiveCols = `id, filename, s3_key, fingerprint, size_bytes, status, error_message, created_at, updated_at`

func scanArchiveObject(scanner interface{ Scan(...any) error }) (*model.ArchiveObject, error) {
	var o model.ArchiveObject
	err := scanner.Scan(&o.ID, &o.Filename, &o.S3Key, &o.Fingerprint, &o.SizeBytes,
		&o.Status, &o.ErrorMessage, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *ArchiveStore) Create(filename, s3Key, fingerprint string) (*model.ArchiveObject, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO archive_objects (filename, s3_key, fingerprint, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		filename, s3Key, fingerprint, model.ArchiveStatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create archive object: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ArchiveStore) GetByID(id int64) (*model.ArchiveObject, error) {
	row := s.db.QueryRow(`SELECT `+archiveCols+` FROM archive_objects WHERE id = ?`, id)
	o, err := scanArchiveObject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get archive object: %w", err)
	}
	return o, nil
}

func (s *ArchiveStore) UpdateStatus(id int64, status model.ArchiveStatus, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE archive_objects SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update archive status: %w", err)
	}
	return nil
}

func (s *ArchiveStore) SetUploaded(id, sizeBytes int64) error {
	_, err := s.db.Exec(
		`UPDATE archive_objects SET status = ?, size_bytes = ?, updated_at = ? WHERE id = ?`,
		model.ArchiveStatusCompleted, sizeBytes, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark archive uploaded: %w", err)
	}
	return nil
}

func (s *ArchiveStore) List(limit int) ([]model.ArchiveObject, error) {
	rows, err := s.db.Query(
		`SELECT `+archiveCols+` FROM archive_objects ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list archive objects: %w", err)
	}
	defer rows.Close()

	var objects []model.ArchiveObject
	for rows.Next() {
		o, err := scanArchiveObject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive object: %w", err)
		}
		objects = append(objects, *o)
	}
	return objects, rows.Err()
}

// CompletedOlderThan returns uploaded snapshots created before the cutoff,
// for retention cleanup.
func (s *ArchiveStore) CompletedOlderThan(cutoff time.Time) ([]model.ArchiveObject, error) {
	rows, err := s.db.Query(
		`SELECT `+archiveCols+` FROM archive_objects WHERE status = ? AND created_at < ? ORDER BY created_at ASC`,
		model.ArchiveStatusCompleted, cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list expired archive objects: %w", err)
	}
	defer rows.Close()

	var objects []model.ArchiveObject
	for rows.Next() {
		o, err := scanArchiveObject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive object: %w", err)
		}
		objects = append(objects, *o)
	}
	return objects, rows.Err()
}

func (s *ArchiveStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM archive_objects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete archive object: %w", err)
	}
	return nil
}
