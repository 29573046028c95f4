// Package ingest loads the CSV datasets into the SQLite index and keeps the
// provenance ledger. It is a verbatim load: rows are never transformed or
// dropped, and data-quality findings ride along instead of blocking.
package ingest

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kamerdata/kamerarchief/internal/dataset"
	"github.com/kamerdata/kamerarchief/internal/integrity"
	"github.com/kamerdata/kamerarchief/internal/model"
	"github.com/kamerdata/kamerarchief/internal/store"
)

// Result describes one completed ingest run.
type Result struct {
	MemberRows      int                 `json:"member_rows"`
	AppointmentRows int                 `json:"appointment_rows"`
	Report          *integrity.Report   `json:"report"`
	Loads           []model.DatasetLoad `json:"loads"`
}

// Ingester reads the data directory and replaces the store contents.
type Ingester struct {
	dataDir          string
	memberStore      *store.MemberStore
	appointmentStore *store.AppointmentStore
	loadStore        *store.LoadStore
	logger           *slog.Logger
}

func New(dataDir string, ms *store.MemberStore, as *store.AppointmentStore, ls *store.LoadStore, logger *slog.Logger) *Ingester {
	return &Ingester{
		dataDir:          dataDir,
		memberStore:      ms,
		appointmentStore: as,
		loadStore:        ls,
		logger:           logger,
	}
}

// Run reads both dataset files, checks them, replaces the indexed tables and
// records one load ledger entry per file. A file that fails structurally
// (unreadable, wrong header) fails the run and leaves the previous index
// contents in place.
func (i *Ingester) Run() (*Result, error) {
	started := time.Now().UTC()

	members, err := dataset.ReadMembersFile(i.dataDir)
	if err != nil {
		i.recordFailure(dataset.MembersFile, err)
		return nil, fmt.Errorf("ingest members: %w", err)
	}
	appointments, err := dataset.ReadAppointmentsFile(i.dataDir)
	if err != nil {
		i.recordFailure(dataset.AppointmentsFile, err)
		return nil, fmt.Errorf("ingest appointments: %w", err)
	}

	report := integrity.Check(dataset.MembersFile, members, dataset.AppointmentsFile, appointments)

	if err := i.memberStore.ReplaceAll(members); err != nil {
		return nil, fmt.Errorf("replace member terms: %w", err)
	}
	if err := i.appointmentStore.ReplaceAll(appointments); err != nil {
		return nil, fmt.Errorf("replace appointments: %w", err)
	}

	result := &Result{
		MemberRows:      len(members),
		AppointmentRows: len(appointments),
		Report:          report,
	}

	for file, rows := range map[string]int{
		dataset.MembersFile:      len(members),
		dataset.AppointmentsFile: len(appointments),
	} {
		load, err := i.recordLoad(file, rows, report, started)
		if err != nil {
			return nil, err
		}
		result.Loads = append(result.Loads, load)
	}

	i.logger.Info("datasets ingested",
		"member_rows", len(members),
		"appointment_rows", len(appointments),
		"errors", report.Count(integrity.SeverityError),
		"warnings", report.Count(integrity.SeverityWarning),
		"duration", time.Since(started))

	return result, nil
}

func (i *Ingester) recordLoad(file string, rows int, report *integrity.Report, at time.Time) (model.DatasetLoad, error) {
	fingerprint, err := dataset.Fingerprint(filepath.Join(i.dataDir, file))
	if err != nil {
		return model.DatasetLoad{}, fmt.Errorf("fingerprint %s: %w", file, err)
	}
	errors, warnings, infos := report.CountFile(file)
	load := model.DatasetLoad{
		ID:          uuid.NewString(),
		File:        file,
		Fingerprint: fingerprint,
		Rows:        rows,
		Errors:      errors,
		Warnings:    warnings,
		Infos:       infos,
		Status:      model.LoadStatusCompleted,
		LoadedAt:    at,
	}
	if err := i.loadStore.Create(load); err != nil {
		return model.DatasetLoad{}, fmt.Errorf("record load: %w", err)
	}
	return load, nil
}

func (i *Ingester) recordFailure(file string, cause error) {
	load := model.DatasetLoad{
		ID:       uuid.NewString(),
		File:     file,
		Status:   model.LoadStatusFailed,
		Message:  cause.Error(),
		LoadedAt: time.Now().UTC(),
	}
	if err := i.loadStore.Create(load); err != nil {
		i.logger.Error("record failed load", "file", file, "error", err)
	}
}
