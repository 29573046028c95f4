package model

import "github.com/kamerdata/kamerarchief/internal/dutchdate"

// MemberTerm is one row of the Tweede Kamerleden dataset: a single period in
// which a person held a seat under one party affiliation. People appear in
// multiple rows when they switch party or re-enter after leave, and identical
// duplicate rows can represent leave-of-absence interruptions. Rows are never
// mutated once published.
type MemberTerm struct {
	ID       int64          `json:"id"`
	FullName string         `json:"full_name"`
	LastName string         `json:"last_name"`
	Party    string         `json:"party"`
	Start    dutchdate.Date `json:"start_date"`
	End      dutchdate.Date `json:"end_date"`
}

// Current reports whether the term has no recorded end date, meaning the
// member is still serving.
func (m MemberTerm) Current() bool {
	return m.End.Ongoing()
}

// PartyTally is an aggregate of term rows per party.
type PartyTally struct {
	Party string `json:"party"`
	Terms int    `json:"terms"`
}
