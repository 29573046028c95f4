package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kamerdata/kamerarchief/internal/dutchdate"
	"github.com/kamerdata/kamerarchief/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

// dateKey maps a dataset date onto its sortable column value. Unparsed and
// ongoing dates index as NULL so range predicates skip them.
func dateKey(d dutchdate.Date) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.SortKey(), Valid: true}
}

// scanDate rebuilds a dataset date from its verbatim column. Parse failures
// were already reported at ingest; here the raw text is simply carried along.
func scanDate(raw string) dutchdate.Date {
	d, _ := dutchdate.Parse(raw)
	return d
}

const memberCols = `id, full_name, last_name, party, start_raw, end_raw`

func scanMemberTerm(scanner interface{ Scan(...any) error }) (*model.MemberTerm, error) {
	var m model.MemberTerm
	var startRaw, endRaw string
	err := scanner.Scan(&m.ID, &m.FullName, &m.LastName, &m.Party, &startRaw, &endRaw)
	if err != nil {
		return nil, err
	}
	m.Start = scanDate(startRaw)
	m.End = scanDate(endRaw)
	return &m, nil
}

// ReplaceAll swaps the table contents for the given terms in one transaction.
// Source rows are append-only history, so ingest always reloads wholesale
// rather than diffing.
func (s *MemberStore) ReplaceAll(terms []model.MemberTerm) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM member_terms`); err != nil {
		return fmt.Errorf("clear member terms: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO member_terms (full_name, last_name, party, start_raw, start_key, end_raw, end_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range terms {
		if _, err := stmt.Exec(m.FullName, m.LastName, m.Party,
			m.Start.Raw, dateKey(m.Start), m.End.Raw, dateKey(m.End)); err != nil {
			return fmt.Errorf("insert member term: %w", err)
		}
	}
	return tx.Commit()
}

// MemberFilter narrows List. Zero values mean "no constraint".
type MemberFilter struct {
	Party   string
	Query   string     // case-insensitive substring of full_name
	Current bool       // only terms without an end date
	On      *time.Time // only terms covering this calendar day
}

func (s *MemberStore) List(f MemberFilter) ([]model.MemberTerm, error) {
	query := `SELECT ` + memberCols + ` FROM member_terms`
	var conds []string
	var args []any

	if f.Party != "" {
		conds = append(conds, `party = ?`)
		args = append(args, f.Party)
	}
	if f.Query != "" {
		conds = append(conds, `full_name LIKE ? COLLATE NOCASE`)
		args = append(args, "%"+f.Query+"%")
	}
	if f.Current {
		conds = append(conds, `TRIM(end_raw) = ''`)
	}
	if f.On != nil {
		day := f.On.Format("2006-01-02")
		conds = append(conds, `start_key IS NOT NULL AND start_key <= ? AND (TRIM(end_raw) = '' OR end_key >= ?)`)
		args = append(args, day, day)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY start_key ASC, last_name ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list member terms: %w", err)
	}
	defer rows.Close()

	var terms []model.MemberTerm
	for rows.Next() {
		m, err := scanMemberTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member term: %w", err)
		}
		terms = append(terms, *m)
	}
	return terms, rows.Err()
}

func (s *MemberStore) ByLastName(lastName string) ([]model.MemberTerm, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM member_terms WHERE last_name = ? COLLATE NOCASE ORDER BY start_key ASC, id ASC`,
		lastName,
	)
	if err != nil {
		return nil, fmt.Errorf("member terms by last name: %w", err)
	}
	defer rows.Close()

	var terms []model.MemberTerm
	for rows.Next() {
		m, err := scanMemberTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member term: %w", err)
		}
		terms = append(terms, *m)
	}
	return terms, rows.Err()
}

func (s *MemberStore) PartyTallies() ([]model.PartyTally, error) {
	rows, err := s.db.Query(
		`SELECT party, COUNT(*) FROM member_terms GROUP BY party ORDER BY COUNT(*) DESC, party ASC`)
	if err != nil {
		return nil, fmt.Errorf("party tallies: %w", err)
	}
	defer rows.Close()

	var tallies []model.PartyTally
	for rows.Next() {
		var t model.PartyTally
		if err := rows.Scan(&t.Party, &t.Terms); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

func (s *MemberStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM member_terms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count member terms: %w", err)
	}
	return n, nil
}
