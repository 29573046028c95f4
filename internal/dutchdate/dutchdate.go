// Package dutchdate parses and formats the Dutch-locale date strings used in
// the office-holder datasets. The source files carry dates as free text in
// two conventions: numeric day-month-year ("14-3-2021", "14-03-2021") and
// written month names ("14 maart 2021"). An empty string marks an ongoing
// term or appointment.
package dutchdate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical numeric form used when formatting a Date that was
// constructed programmatically rather than parsed from a file.
const Layout = "2-1-2006"

var months = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maart":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"augustus":  time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Date is a dataset date field. The verbatim source string is kept alongside
// the parsed value so that re-serializing a record reproduces the file
// byte-for-byte, even for values the parser could not interpret.
type Date struct {
	Raw   string
	Time  time.Time
	Valid bool
}

// Parse interprets a raw date string from the datasets. An empty (or
// whitespace-only) string yields an ongoing Date with no error. A non-empty
// string that matches neither convention yields an invalid Date carrying the
// raw text, plus an error the caller may record as a data-quality finding.
func Parse(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Date{Raw: raw}, nil
	}

	if t, ok := parseNumeric(trimmed); ok {
		return Date{Raw: raw, Time: t, Valid: true}, nil
	}
	if t, ok := parseWritten(trimmed); ok {
		return Date{Raw: raw, Time: t, Valid: true}, nil
	}
	return Date{Raw: raw}, fmt.Errorf("unrecognized date %q", trimmed)
}

// parseNumeric handles d-m-jjjj with "-", "/" or "." separators.
func parseNumeric(s string) (time.Time, bool) {
	sep := ""
	for _, c := range []string{"-", "/", "."} {
		if strings.Contains(s, c) {
			sep = c
			break
		}
	}
	if sep == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return makeDate(year, month, day)
}

// parseWritten handles "d maandnaam jjjj".
func parseWritten(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return makeDate(year, int(month), day)
}

func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1800 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31 april -> 1 mei); reject those.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// FromTime builds a valid Date from a time.Time, formatted canonically.
func FromTime(t time.Time) Date {
	return Date{Raw: t.Format(Layout), Time: t, Valid: true}
}

// Ongoing reports whether the field was empty in the source, which the
// datasets use to mean "still in office".
func (d Date) Ongoing() bool {
	return strings.TrimSpace(d.Raw) == ""
}

// String returns the verbatim source text. Writing it back to CSV reproduces
// the original field, including values that failed to parse.
func (d Date) String() string {
	return d.Raw
}

// SortKey returns the ISO yyyy-mm-dd form for valid dates and the empty
// string otherwise. Stores index on this so ordering and range queries never
// depend on the free-text source form.
func (d Date) SortKey() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// MarshalJSON emits the verbatim source string, so API responses carry the
// same field values as the files.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw)
}

// UnmarshalJSON accepts a date string in either source convention. Like the
// CSV codec it keeps unparseable text verbatim rather than failing.
func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, _ := Parse(raw)
	*d = parsed
	return nil
}

// Before reports whether d falls strictly before other. Either side being
// invalid or ongoing yields false, so callers can chain comparisons without
// special-casing unparsed values.
func (d Date) Before(other Date) bool {
	return d.Valid && other.Valid && d.Time.Before(other.Time)
}
