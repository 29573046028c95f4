// Package dataset reads and writes the two office-holder CSV files. The
// files are the canonical record: decoding keeps every field verbatim
// (including date strings that fail to parse), and encoding a decoded file
// reproduces it record for record.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kamerdata/kamerarchief/internal/dutchdate"
	"github.com/kamerdata/kamerarchief/internal/model"
)

// Canonical dataset file names as checked into data/.
const (
	MembersFile      = "List_of_Tweede_Kamerleden_2006-present.csv"
	AppointmentsFile = "Ministers_Staatssecretarissen_1945-present.csv"
)

var (
	membersHeader      = []string{"full_name", "last_name", "party", "start_date", "end_date"}
	appointmentsHeader = []string{"full_name", "last_name", "party", "function", "role", "cabinet", "start_date", "end_date"}
)

// headerError marks a structural problem with a file, as opposed to the
// row-level data-quality issues the integrity checker reports.
func headerError(got, want []string) error {
	return fmt.Errorf("unexpected header %v, want %v", got, want)
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return headerError(got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			return headerError(got, want)
		}
	}
	return nil
}

// ReadMembers decodes the Kamerleden dataset. Date fields that fail to parse
// are kept verbatim and surface later as integrity findings; only a missing
// or malformed header is an error.
func ReadMembers(r io.Reader) ([]model.MemberTerm, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, membersHeader); err != nil {
		return nil, err
	}

	var terms []model.MemberTerm
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		start, _ := dutchdate.Parse(rec[3])
		end, _ := dutchdate.Parse(rec[4])
		terms = append(terms, model.MemberTerm{
			FullName: rec[0],
			LastName: rec[1],
			Party:    rec[2],
			Start:    start,
			End:      end,
		})
	}
	return terms, nil
}

// WriteMembers encodes terms in the canonical column order with a header row.
func WriteMembers(w io.Writer, terms []model.MemberTerm) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(membersHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range terms {
		row := []string{t.FullName, t.LastName, t.Party, t.Start.String(), t.End.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadAppointments decodes the Ministers/Staatssecretarissen dataset.
func ReadAppointments(r io.Reader) ([]model.Appointment, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, appointmentsHeader); err != nil {
		return nil, err
	}

	var apps []model.Appointment
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		start, _ := dutchdate.Parse(rec[6])
		end, _ := dutchdate.Parse(rec[7])
		apps = append(apps, model.Appointment{
			FullName: rec[0],
			LastName: rec[1],
			Party:    rec[2],
			Function: model.Function(rec[3]),
			Role:     rec[4],
			Cabinet:  rec[5],
			Start:    start,
			End:      end,
		})
	}
	return apps, nil
}

// WriteAppointments encodes appointments in the canonical column order.
func WriteAppointments(w io.Writer, apps []model.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(appointmentsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range apps {
		row := []string{a.FullName, a.LastName, a.Party, string(a.Function), a.Role, a.Cabinet, a.Start.String(), a.End.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMembersFile reads the Kamerleden dataset from the data directory.
func ReadMembersFile(dataDir string) ([]model.MemberTerm, error) {
	f, err := os.Open(filepath.Join(dataDir, MembersFile))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", MembersFile, err)
	}
	defer f.Close()
	terms, err := ReadMembers(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MembersFile, err)
	}
	return terms, nil
}

// ReadAppointmentsFile reads the Ministers dataset from the data directory.
func ReadAppointmentsFile(dataDir string) ([]model.Appointment, error) {
	f, err := os.Open(filepath.Join(dataDir, AppointmentsFile))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", AppointmentsFile, err)
	}
	defer f.Close()
	apps, err := ReadAppointments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", AppointmentsFile, err)
	}
	return apps, nil
}
