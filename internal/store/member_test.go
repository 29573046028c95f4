package store

import (
	"testing"
	"time"

	"github.com/kamerdata/kamerarchief/internal/database"
	"github.com/kamerdata/kamerarchief/internal/dutchdate"
	"github.com/kamerdata/kamerarchief/internal/model"
)

func setupTestDB(t *testing.T) *MemberStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMemberStore(db)
}

func testDate(t *testing.T, raw string) dutchdate.Date {
	t.Helper()
	d, _ := dutchdate.Parse(raw)
	return d
}

func testTerms(t *testing.T) []model.MemberTerm {
	t.Helper()
	return []model.MemberTerm{
		{FullName: "Femke Halsema", LastName: "Halsema", Party: "GroenLinks",
			Start: testDate(t, "30 november 2006"), End: testDate(t, "17-6-2010")},
		{FullName: "Gerdi Verbeet", LastName: "Verbeet", Party: "PvdA",
			Start: testDate(t, "30 november 2006"), End: testDate(t, "19 september 2012")},
		{FullName: "Dion Graus", LastName: "Graus", Party: "PVV",
			Start: testDate(t, "30 november 2006"), End: testDate(t, "")},
		{FullName: "Pieter Omtzigt", LastName: "Omtzigt", Party: "CDA",
			Start: testDate(t, "23 mei 2002"), End: testDate(t, "3 juni 2021")},
		{FullName: "Pieter Omtzigt", LastName: "Omtzigt", Party: "Omtzigt",
			Start: testDate(t, "3 juni 2021"), End: testDate(t, "")},
	}
}

func TestMemberReplaceAll(t *testing.T) {
	ms := setupTestDB(t)

	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	n, err := ms.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("count = %d, want 5", n)
	}

	// Reloading replaces, never appends.
	if err := ms.ReplaceAll(testTerms(t)[:2]); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	n, _ = ms.Count()
	if n != 2 {
		t.Fatalf("count after reload = %d, want 2", n)
	}
}

func TestMemberListByParty(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	terms, err := ms.List(MemberFilter{Party: "CDA"})
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 1 || terms[0].FullName != "Pieter Omtzigt" {
		t.Errorf("CDA filter returned %+v", terms)
	}
}

func TestMemberListCurrent(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	terms, err := ms.List(MemberFilter{Current: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 2 {
		t.Fatalf("current terms = %d, want 2", len(terms))
	}
	for _, m := range terms {
		if !m.Current() {
			t.Errorf("term %+v listed as current but has end date", m)
		}
	}
}

func TestMemberListServingOn(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	day := time.Date(2008, time.March, 1, 0, 0, 0, 0, time.UTC)
	terms, err := ms.List(MemberFilter{On: &day})
	if err != nil {
		t.Fatal(err)
	}
	// Halsema, Verbeet, Graus (ongoing) and Omtzigt's first CDA term all
	// cover 1 March 2008; the Omtzigt fraction term starts in 2021.
	if len(terms) != 4 {
		t.Fatalf("serving on 1-3-2008 = %d terms, want 4: %+v", len(terms), terms)
	}

	day = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	terms, err = ms.List(MemberFilter{On: &day})
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 2 {
		t.Fatalf("serving on 1-1-2022 = %d terms, want 2", len(terms))
	}
}

func TestMemberListQuery(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	terms, err := ms.List(MemberFilter{Query: "omtzigt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 2 {
		t.Fatalf("name query returned %d terms, want 2 (one per affiliation)", len(terms))
	}
}

func TestMemberRawDatesSurviveStore(t *testing.T) {
	ms := setupTestDB(t)
	in := []model.MemberTerm{
		{FullName: "Jan Jansen", LastName: "Jansen", Party: "CDA",
			Start: testDate(t, "ergens in 2007"), End: testDate(t, "")},
	}
	if err := ms.ReplaceAll(in); err != nil {
		t.Fatal(err)
	}

	out, err := ms.List(MemberFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Start.Raw != "ergens in 2007" || out[0].Start.Valid {
		t.Errorf("unparseable date not preserved verbatim: %+v", out[0].Start)
	}
	if !out[0].Current() {
		t.Error("empty end date must still read as currently serving")
	}
}

func TestPartyTallies(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	tallies, err := ms.PartyTallies()
	if err != nil {
		t.Fatal(err)
	}
	if len(tallies) != 5 {
		t.Fatalf("tallies = %d parties, want 5", len(tallies))
	}
	total := 0
	for _, tl := range tallies {
		total += tl.Terms
	}
	if total != 5 {
		t.Errorf("tally total = %d, want 5", total)
	}
}

func TestMemberByLastName(t *testing.T) {
	ms := setupTestDB(t)
	if err := ms.ReplaceAll(testTerms(t)); err != nil {
		t.Fatal(err)
	}

	terms, err := ms.ByLastName("omtzigt")
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 2 {
		t.Fatalf("by last name = %d terms, want 2", len(terms))
	}
	if !terms[0].Start.Before(terms[1].Start) {
		t.Error("terms not ordered by start date")
	}
}
