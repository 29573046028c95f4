package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamerdata/kamerarchief/internal/model"
)

const membersCSV = `full_name,last_name,party,start_date,end_date
Femke Halsema,Halsema,GroenLinks,30 november 2006,17-6-2010
Gerdi Verbeet,Verbeet,PvdA,30 november 2006,19 september 2012
Dion Graus,Graus,PVV,30 november 2006,
`

const appointmentsCSV = `full_name,last_name,party,function,role,cabinet,start_date,end_date
Willem Drees,Drees,PvdA,Minister,Minister-president,Drees-Van Schaik,7 augustus 1948,15 maart 1951
Mark Rutte,Rutte,VVD,Minister,Minister-president,Rutte IV,10 januari 2022,
Maarten van Ooijen,van Ooijen,ChristenUnie,Staatssecretaris,Volksgezondheid Welzijn en Sport,Rutte IV,10 januari 2022,
`

func TestReadMembers(t *testing.T) {
	terms, err := ReadMembers(strings.NewReader(membersCSV))
	if err != nil {
		t.Fatalf("read members: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("got %d terms, want 3", len(terms))
	}

	if terms[0].FullName != "Femke Halsema" || terms[0].Party != "GroenLinks" {
		t.Errorf("unexpected first term: %+v", terms[0])
	}
	if !terms[0].Start.Valid || terms[0].Start.SortKey() != "2006-11-30" {
		t.Errorf("start date not parsed: %+v", terms[0].Start)
	}
	if terms[0].End.SortKey() != "2010-06-17" {
		t.Errorf("numeric end date not parsed: %+v", terms[0].End)
	}
	if !terms[2].Current() {
		t.Error("empty end_date must read as currently serving")
	}
}

func TestReadAppointments(t *testing.T) {
	apps, err := ReadAppointments(strings.NewReader(appointmentsCSV))
	if err != nil {
		t.Fatalf("read appointments: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("got %d appointments, want 3", len(apps))
	}
	if apps[0].Function != model.FunctionMinister || apps[0].Role != model.RoleMinisterPresident {
		t.Errorf("unexpected first appointment: %+v", apps[0])
	}
	if apps[2].Function != model.FunctionStaatssecretaris {
		t.Errorf("function = %q, want Staatssecretaris", apps[2].Function)
	}
	if !apps[1].Current() {
		t.Error("Rutte IV premiership has no end date, should be current")
	}
}

func TestHeaderMismatch(t *testing.T) {
	_, err := ReadMembers(strings.NewReader("naam,partij\nx,y\n"))
	if err == nil {
		t.Fatal("expected header error")
	}

	// Appointment header on the members reader is also structural.
	_, err = ReadMembers(strings.NewReader(appointmentsCSV))
	if err == nil {
		t.Fatal("expected header error for wrong schema")
	}
}

func TestMembersRoundTrip(t *testing.T) {
	terms, err := ReadMembers(strings.NewReader(membersCSV))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteMembers(&buf, terms); err != nil {
		t.Fatalf("write members: %v", err)
	}
	again, err := ReadMembers(&buf)
	if err != nil {
		t.Fatalf("re-read members: %v", err)
	}
	if len(again) != len(terms) {
		t.Fatalf("round trip changed row count: %d != %d", len(again), len(terms))
	}
	for i := range terms {
		a, b := terms[i], again[i]
		if a.FullName != b.FullName || a.LastName != b.LastName || a.Party != b.Party ||
			a.Start.Raw != b.Start.Raw || a.End.Raw != b.End.Raw {
			t.Errorf("row %d changed: %+v != %+v", i, a, b)
		}
	}
}

func TestRoundTripPreservesUnparseableDates(t *testing.T) {
	src := "full_name,last_name,party,start_date,end_date\nJan Jansen,Jansen,CDA,ergens in 2007,\n"
	terms, err := ReadMembers(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if terms[0].Start.Valid {
		t.Fatal("date should not have parsed")
	}

	var buf bytes.Buffer
	if err := WriteMembers(&buf, terms); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "ergens in 2007") {
		t.Error("unparseable date was not written back verbatim")
	}
}

func TestDiacriticsSurvive(t *testing.T) {
	src := "full_name,last_name,party,start_date,end_date\nKhadija Arib,Arib,PvdA,30 november 2006,\nAndré Rouvoet,Rouvoet,ChristenUnie,30 november 2006,23-2-2007\n"
	terms, err := ReadMembers(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if terms[1].FullName != "André Rouvoet" {
		t.Errorf("diacritics mangled: %q", terms[1].FullName)
	}

	var buf bytes.Buffer
	if err := WriteMembers(&buf, terms); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "André Rouvoet") {
		t.Error("diacritics lost on write")
	}
}

func TestAppointmentsRoundTrip(t *testing.T) {
	apps, err := ReadAppointments(strings.NewReader(appointmentsCSV))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteAppointments(&buf, apps); err != nil {
		t.Fatal(err)
	}
	if buf.String() != appointmentsCSV {
		t.Errorf("round trip altered file:\n%s", buf.String())
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.csv")
	if err := os.WriteFile(path, []byte(membersCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	fp1, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if len(fp1) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(fp1))
	}

	fp2, err := Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	if fp1 != fp2 {
		t.Error("fingerprint not deterministic")
	}

	if err := os.WriteFile(path, []byte(appointmentsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	fp3, err := Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	if fp3 == fp1 {
		t.Error("different content produced same fingerprint")
	}
}
