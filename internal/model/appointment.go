package model

import "github.com/kamerdata/kamerarchief/internal/dutchdate"

// Function is the cabinet-level function of an appointment.
type Function string

const (
	FunctionMinister         Function = "Minister"
	FunctionStaatssecretaris Function = "Staatssecretaris"
)

// ValidFunction reports whether s is one of the enumerated function values.
func ValidFunction(s string) bool {
	switch Function(s) {
	case FunctionMinister, FunctionStaatssecretaris:
		return true
	}
	return false
}

// Special role values. Any other role string names a department.
const (
	RoleMinisterPresident     = "Minister-president"
	RoleViceministerPresident = "Viceminister-president"
)

// Appointment is one row of the Ministers/Staatssecretarissen dataset: one
// person holding one role in one cabinet. A person can hold several roles at
// once or in sequence, each its own row, and party affiliation is recorded
// per row because it can differ between appointments of the same person.
type Appointment struct {
	ID       int64          `json:"id"`
	FullName string         `json:"full_name"`
	LastName string         `json:"last_name"`
	Party    string         `json:"party"`
	Function Function       `json:"function"`
	Role     string         `json:"role"`
	Cabinet  string         `json:"cabinet"`
	Start    dutchdate.Date `json:"start_date"`
	End      dutchdate.Date `json:"end_date"`
}

// Current reports whether the appointment has no recorded end date.
func (a Appointment) Current() bool {
	return a.End.Ongoing()
}

// CabinetSummary aggregates the appointment rows of one cabinet.
type CabinetSummary struct {
	Cabinet             string `json:"cabinet"`
	Ministers           int    `json:"ministers"`
	Staatssecretarissen int    `json:"staatssecretarissen"`
	FirstStart          string `json:"first_start,omitempty"`
	LastEnd             string `json:"last_end,omitempty"`
}

// PersonHistory combines everything the datasets record for one last name.
type PersonHistory struct {
	LastName     string        `json:"last_name"`
	Terms        []MemberTerm  `json:"terms"`
	Appointments []Appointment `json:"appointments"`
}
