package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kamerdata/kamerarchief/internal/model"
)

type AppointmentStore struct {
	db *sql.DB
}

func NewAppointmentStore(db *sql.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

const appointmentCols = `id, full_name, last_name, party, function, role, cabinet, start_raw, end_raw`

func scanAppointment(scanner interface{ Scan(...any) error }) (*model.Appointment, error) {
	var a model.Appointment
	var fn, startRaw, endRaw string
	err := scanner.Scan(&a.ID, &a.FullName, &a.LastName, &a.Party, &fn, &a.Role, &a.Cabinet, &startRaw, &endRaw)
	if err != nil {
		return nil, err
	}
	a.Function = model.Function(fn)
	a.Start = scanDate(startRaw)
	a.End = scanDate(endRaw)
	return &a, nil
}

// ReplaceAll swaps the table contents for the given appointments in one
// transaction.
func (s *AppointmentStore) ReplaceAll(apps []model.Appointment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM appointments`); err != nil {
		return fmt.Errorf("clear appointments: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO appointments (full_name, last_name, party, function, role, cabinet, start_raw, start_key, end_raw, end_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range apps {
		if _, err := stmt.Exec(a.FullName, a.LastName, a.Party, string(a.Function), a.Role, a.Cabinet,
			a.Start.Raw, dateKey(a.Start), a.End.Raw, dateKey(a.End)); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
	}
	return tx.Commit()
}

// AppointmentFilter narrows List. Zero values mean "no constraint".
type AppointmentFilter struct {
	Cabinet  string
	Function string
	Role     string
	Party    string
	Current  bool
}

func (s *AppointmentStore) List(f AppointmentFilter) ([]model.Appointment, error) {
	query := `SELECT ` + appointmentCols + ` FROM appointments`
	var conds []string
	var args []any

	if f.Cabinet != "" {
		conds = append(conds, `cabinet = ? COLLATE NOCASE`)
		args = append(args, f.Cabinet)
	}
	if f.Function != "" {
		conds = append(conds, `function = ?`)
		args = append(args, f.Function)
	}
	if f.Role != "" {
		conds = append(conds, `role = ? COLLATE NOCASE`)
		args = append(args, f.Role)
	}
	if f.Party != "" {
		conds = append(conds, `party = ?`)
		args = append(args, f.Party)
	}
	if f.Current {
		conds = append(conds, `TRIM(end_raw) = ''`)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY start_key ASC, cabinet ASC, last_name ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var apps []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (s *AppointmentStore) ByLastName(lastName string) ([]model.Appointment, error) {
	rows, err := s.db.Query(
		`SELECT `+appointmentCols+` FROM appointments WHERE last_name = ? COLLATE NOCASE ORDER BY start_key ASC, id ASC`,
		lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments by last name: %w", err)
	}
	defer rows.Close()

	var apps []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// Cabinets summarizes appointments per cabinet, ordered by first start date.
func (s *AppointmentStore) Cabinets() ([]model.CabinetSummary, error) {
	rows, err := s.db.Query(
		`SELECT cabinet,
		        SUM(CASE WHEN function = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN function = ? THEN 1 ELSE 0 END),
		        COALESCE(MIN(start_key), ''),
		        COALESCE(MAX(end_key), '')
		 FROM appointments
		 GROUP BY cabinet
		 ORDER BY MIN(start_key) ASC, cabinet ASC`,
		string(model.FunctionMinister), string(model.FunctionStaatssecretaris),
	)
	if err != nil {
		return nil, fmt.Errorf("cabinet summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.CabinetSummary
	for rows.Next() {
		var c model.CabinetSummary
		if err := rows.Scan(&c.Cabinet, &c.Ministers, &c.Staatssecretarissen, &c.FirstStart, &c.LastEnd); err != nil {
			return nil, fmt.Errorf("scan cabinet summary: %w", err)
		}
		summaries = append(summaries, c)
	}
	return summaries, rows.Err()
}

func (s *AppointmentStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM appointments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}
