package integrity

import (
	"testing"

	"github.com/kamerdata/kamerarchief/internal/dutchdate"
	"github.com/kamerdata/kamerarchief/internal/model"
)

func date(t *testing.T, raw string) dutchdate.Date {
	t.Helper()
	d, _ := dutchdate.Parse(raw)
	return d
}

func member(t *testing.T, full, last, party, start, end string) model.MemberTerm {
	t.Helper()
	return model.MemberTerm{
		FullName: full, LastName: last, Party: party,
		Start: date(t, start), End: date(t, end),
	}
}

func appointment(t *testing.T, full, last, fn, role, cabinet, start, end string) model.Appointment {
	t.Helper()
	return model.Appointment{
		FullName: full, LastName: last, Party: "VVD",
		Function: model.Function(fn), Role: role, Cabinet: cabinet,
		Start: date(t, start), End: date(t, end),
	}
}

func TestCleanData(t *testing.T) {
	members := []model.MemberTerm{
		member(t, "Femke Halsema", "Halsema", "GroenLinks", "30 november 2006", "17-6-2010"),
		member(t, "Dion Graus", "Graus", "PVV", "30 november 2006", ""),
	}
	apps := []model.Appointment{
		appointment(t, "Mark Rutte", "Rutte", "Minister", "Minister-president", "Rutte IV", "10 januari 2022", ""),
	}

	r := Check("members.csv", members, "ministers.csv", apps)
	if !r.Clean() {
		t.Fatalf("expected clean report, got findings: %+v", r.Findings)
	}
	if r.Summary.MemberRows != 2 || r.Summary.AppointmentRows != 1 {
		t.Errorf("row counts wrong: %+v", r.Summary)
	}
	if r.Summary.CurrentlyServing != 2 {
		t.Errorf("currently serving = %d, want 2 (one member, one minister)", r.Summary.CurrentlyServing)
	}
}

func TestFunctionEnum(t *testing.T) {
	apps := []model.Appointment{
		appointment(t, "Jan Jansen", "Jansen", "Onderminister", "Financiën", "Rutte IV", "10 januari 2022", ""),
	}
	r := Check("members.csv", nil, "ministers.csv", apps)
	if r.Clean() {
		t.Fatal("invalid function must be an error")
	}
	if r.Summary.InvalidFunctions != 1 {
		t.Errorf("invalid functions = %d, want 1", r.Summary.InvalidFunctions)
	}
	if r.Findings[0].Check != "function_enum" || r.Findings[0].Row != 1 {
		t.Errorf("unexpected finding: %+v", r.Findings[0])
	}
}

func TestReversedRange(t *testing.T) {
	members := []model.MemberTerm{
		member(t, "Jan Jansen", "Jansen", "CDA", "17-6-2010", "30 november 2006"),
	}
	r := Check("members.csv", members, "ministers.csv", nil)
	if r.Summary.ReversedRanges != 1 {
		t.Fatalf("reversed ranges = %d, want 1", r.Summary.ReversedRanges)
	}
	if r.Count(SeverityError) != 1 {
		t.Errorf("reversed range should be error severity")
	}
}

func TestUnparseableDateIsWarningNotError(t *testing.T) {
	members := []model.MemberTerm{
		member(t, "Jan Jansen", "Jansen", "CDA", "ergens in 2007", ""),
	}
	r := Check("members.csv", members, "ministers.csv", nil)
	if !r.Clean() {
		t.Fatal("parse failure is a data-quality issue, not a structural error")
	}
	if r.Summary.InvalidDates != 1 || r.Count(SeverityWarning) != 1 {
		t.Errorf("expected one invalid-date warning, got %+v", r.Summary)
	}
}

func TestNameHeuristic(t *testing.T) {
	members := []model.MemberTerm{
		// Containment is case-insensitive, so a lowercase tussenvoegsel in
		// last_name still matches.
		member(t, "Maarten van Ooijen", "Van Ooijen", "ChristenUnie", "10 januari 2022", ""),
		member(t, "Piet Hein Donner", "Balkenende", "CDA", "22 februari 2007", ""),
	}
	r := Check("members.csv", members, "ministers.csv", nil)
	if r.Summary.NameMismatches != 1 {
		t.Fatalf("name mismatches = %d, want 1", r.Summary.NameMismatches)
	}
	if r.Findings[0].Severity != SeverityWarning {
		t.Error("name heuristic must be warning severity only")
	}
	if r.Findings[0].Row != 2 {
		t.Errorf("finding row = %d, want 2", r.Findings[0].Row)
	}
}

func TestEmptyName(t *testing.T) {
	members := []model.MemberTerm{
		member(t, "", "Jansen", "CDA", "30 november 2006", ""),
	}
	r := Check("members.csv", members, "ministers.csv", nil)
	if r.Summary.EmptyNames != 1 || r.Clean() {
		t.Errorf("empty full_name must be an error: %+v", r.Summary)
	}
}

func TestDuplicateRowsAreInfo(t *testing.T) {
	row := member(t, "Khadija Arib", "Arib", "PvdA", "30 november 2006", "")
	r := Check("members.csv", []model.MemberTerm{row, row}, "ministers.csv", nil)
	if !r.Clean() {
		t.Fatal("duplicates are characteristics, not errors")
	}
	if r.Summary.DuplicateRows != 1 || r.Count(SeverityInfo) != 1 {
		t.Errorf("expected one duplicate info finding, got %+v", r.Summary)
	}
}

func TestCountFile(t *testing.T) {
	members := []model.MemberTerm{
		member(t, "Jan Jansen", "Jansen", "CDA", "onbekend", ""),
	}
	apps := []model.Appointment{
		appointment(t, "Piet Pietersen", "Pietersen", "Bewindspersoon", "Financiën", "Rutte IV", "10 januari 2022", ""),
	}
	r := Check("members.csv", members, "ministers.csv", apps)

	e, w, i := r.CountFile("members.csv")
	if e != 0 || w != 1 || i != 0 {
		t.Errorf("members.csv tallies = %d/%d/%d, want 0/1/0", e, w, i)
	}
	e, w, i = r.CountFile("ministers.csv")
	if e != 1 || w != 0 || i != 0 {
		t.Errorf("ministers.csv tallies = %d/%d/%d, want 1/0/0", e, w, i)
	}
}
