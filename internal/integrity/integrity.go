// Package integrity applies the data-quality checks a consumer of the
// datasets needs before trusting a row. Findings describe the data, they
// never reject it: duplicate rows, missing end dates and unparseable dates
// are documented characteristics of the source, not load failures.
package integrity

import (
	"fmt"
	"strings"

	"github.com/kamerdata/kamerarchief/internal/model"
)

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks rows that violate the documented schema, such as
	// a function outside the Minister/Staatssecretaris enum.
	SeverityError Severity = "error"
	// SeverityWarning marks soft-heuristic misses and unparseable values.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks documented irregularities worth surfacing.
	SeverityInfo Severity = "info"
)

// Finding is one observation about one row.
type Finding struct {
	File     string   `json:"file"`
	Row      int      `json:"row"` // 1-based data row number, header excluded
	Severity Severity `json:"severity"`
	Check    string   `json:"check"`
	Message  string   `json:"message"`
}

// Summary holds the per-check counters, in the style of the validation
// reports the datasets were originally published with.
type Summary struct {
	MemberRows       int `json:"member_rows"`
	AppointmentRows  int `json:"appointment_rows"`
	CurrentlyServing int `json:"currently_serving"`
	InvalidDates     int `json:"invalid_dates"`
	InvalidFunctions int `json:"invalid_functions"`
	ReversedRanges   int `json:"reversed_ranges"`
	EmptyNames       int `json:"empty_names"`
	NameMismatches   int `json:"name_mismatches"`
	DuplicateRows    int `json:"duplicate_rows"`
}

// Report is the result of checking both datasets.
type Report struct {
	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
}

// Count returns how many findings carry the given severity.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// CountFile returns the severity tallies for one file.
func (r *Report) CountFile(file string) (errors, warnings, infos int) {
	for _, f := range r.Findings {
		if f.File != file {
			continue
		}
		switch f.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}
	return
}

// Clean reports whether no error-severity findings were recorded.
func (r *Report) Clean() bool {
	return r.Count(SeverityError) == 0
}

func (r *Report) add(file string, row int, sev Severity, check, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		File:     file,
		Row:      row,
		Severity: sev,
		Check:    check,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Check runs every check against both datasets and returns the report.
// membersFile and appointmentsFile name the sources in the findings.
func Check(membersFile string, members []model.MemberTerm, appointmentsFile string, appointments []model.Appointment) *Report {
	r := &Report{}
	r.Summary.MemberRows = len(members)
	r.Summary.AppointmentRows = len(appointments)

	seen := make(map[string]int)
	for i, m := range members {
		row := i + 1
		r.checkName(membersFile, row, m.FullName, m.LastName)
		r.checkDates(membersFile, row, m.Start.Raw, m.Start.Valid, m.End.Raw, m.End.Valid,
			m.End.Before(m.Start))
		if m.Current() {
			r.Summary.CurrentlyServing++
		}
		key := strings.Join([]string{m.FullName, m.LastName, m.Party, m.Start.Raw, m.End.Raw}, "\x1f")
		if first, dup := seen[key]; dup {
			r.Summary.DuplicateRows++
			r.add(membersFile, row, SeverityInfo, "duplicate_row",
				"identical to row %d (%s); may be a leave-of-absence re-entry", first, m.FullName)
		} else {
			seen[key] = row
		}
	}

	seen = make(map[string]int)
	for i, a := range appointments {
		row := i + 1
		r.checkName(appointmentsFile, row, a.FullName, a.LastName)
		r.checkDates(appointmentsFile, row, a.Start.Raw, a.Start.Valid, a.End.Raw, a.End.Valid,
			a.End.Before(a.Start))
		if !model.ValidFunction(string(a.Function)) {
			r.Summary.InvalidFunctions++
			r.add(appointmentsFile, row, SeverityError, "function_enum",
				"function %q is not Minister or Staatssecretaris", a.Function)
		}
		if a.Current() {
			r.Summary.CurrentlyServing++
		}
		key := strings.Join([]string{a.FullName, a.LastName, a.Party, string(a.Function), a.Role, a.Cabinet, a.Start.Raw, a.End.Raw}, "\x1f")
		if first, dup := seen[key]; dup {
			r.Summary.DuplicateRows++
			r.add(appointmentsFile, row, SeverityInfo, "duplicate_row",
				"identical to row %d (%s); may be a leave-of-absence re-entry", first, a.FullName)
		} else {
			seen[key] = row
		}
	}

	return r
}

func (r *Report) checkName(file string, row int, fullName, lastName string) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(lastName) == "" {
		r.Summary.EmptyNames++
		r.add(file, row, SeverityError, "empty_name", "full_name and last_name must be non-empty")
		return
	}
	// Soft heuristic only: tussenvoegsels and initials make legitimate rows
	// fail the containment check.
	if !strings.Contains(strings.ToLower(fullName), strings.ToLower(lastName)) {
		r.Summary.NameMismatches++
		r.add(file, row, SeverityWarning, "name_mismatch",
			"full_name %q does not contain last_name %q", fullName, lastName)
	}
}

func (r *Report) checkDates(file string, row int, startRaw string, startValid bool, endRaw string, endValid, reversed bool) {
	if strings.TrimSpace(startRaw) != "" && !startValid {
		r.Summary.InvalidDates++
		r.add(file, row, SeverityWarning, "invalid_date", "start_date %q is not a recognized Dutch date", startRaw)
	}
	if strings.TrimSpace(endRaw) != "" && !endValid {
		r.Summary.InvalidDates++
		r.add(file, row, SeverityWarning, "invalid_date", "end_date %q is not a recognized Dutch date", endRaw)
	}
	if reversed {
		r.Summary.ReversedRanges++
		r.add(file, row, SeverityError, "reversed_range", "end_date %q predates start_date %q", endRaw, startRaw)
	}
}
