// Package main provides kamerctl, a command line tool for working with the
// parliamentary dataset files directly, without the HTTP service.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamerdata/kamerarchief/internal/dataset"
	"github.com/kamerdata/kamerarchief/internal/integrity"
	"github.com/kamerdata/kamerarchief/internal/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:           "kamerctl",
		Short:         "Inspect and export the Tweede Kamer dataset files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dataDir, "data", "data", "directory holding the dataset CSV files")

	cmd.AddCommand(validateCmd(&dataDir))
	cmd.AddCommand(statsCmd(&dataDir))
	cmd.AddCommand(exportCmd(&dataDir))
	return cmd
}

func loadDataset(dataDir string) ([]model.MemberTerm, []model.Appointment, error) {
	members, err := dataset.ReadMembersFile(dataDir)
	if err != nil {
		return nil, nil, err
	}
	appointments, err := dataset.ReadAppointmentsFile(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return members, appointments, nil
}

func validateCmd(dataDir *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check both CSV files against the documented schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, appointments, err := loadDataset(*dataDir)
			if err != nil {
				return err
			}
			report := integrity.Check(dataset.MembersFile, members, dataset.AppointmentsFile, appointments)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}

			if n := report.Count(integrity.SeverityError); n > 0 {
				return fmt.Errorf("%d schema violation(s)", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")
	return cmd
}

func printReport(w io.Writer, report *integrity.Report) {
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%-7s %s row %d: %s (%s)\n", f.Severity, f.File, f.Row, f.Message, f.Check)
	}
	s := report.Summary
	fmt.Fprintf(w, "\n%d member terms, %d appointments, %d currently serving\n",
		s.MemberRows, s.AppointmentRows, s.CurrentlyServing)
	fmt.Fprintf(w, "errors: %d  warnings: %d  info: %d\n",
		report.Count(integrity.SeverityError),
		report.Count(integrity.SeverityWarning),
		report.Count(integrity.SeverityInfo))
}

func statsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, appointments, err := loadDataset(*dataDir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			parties := map[string]int{}
			current := 0
			for _, m := range members {
				parties[m.Party]++
				if m.Current() {
					current++
				}
			}
			first, last := "", ""
			for _, m := range members {
				if k := m.Start.SortKey(); k != "" && (first == "" || k < first) {
					first = k
				}
				if k := m.End.SortKey(); k > last {
					last = k
				}
			}
			fmt.Fprintf(w, "Tweede Kamer: %d terms, %d parties, %d currently serving, %s .. %s\n",
				len(members), len(parties), current, first, last)
			for _, p := range sortedKeys(parties) {
				fmt.Fprintf(w, "  %-20s %d\n", p, parties[p])
			}

			cabinets := map[string]int{}
			ministers, staats := 0, 0
			for _, a := range appointments {
				cabinets[a.Cabinet]++
				switch a.Function {
				case model.FunctionMinister:
					ministers++
				case model.FunctionStaatssecretaris:
					staats++
				}
			}
			fmt.Fprintf(w, "\nCabinets: %d appointments across %d cabinets (%d ministers, %d staatssecretarissen)\n",
				len(appointments), len(cabinets), ministers, staats)
			return nil
		},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func exportCmd(dataDir *string) *cobra.Command {
	var (
		file    string
		party   string
		cabinet string
		format  string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a filtered slice of a dataset file as CSV or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("format must be csv or json, got %q", format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch file {
			case "members":
				members, err := dataset.ReadMembersFile(*dataDir)
				if err != nil {
					return err
				}
				var filtered []model.MemberTerm
				for _, m := range members {
					if party != "" && !strings.EqualFold(m.Party, party) {
						continue
					}
					filtered = append(filtered, m)
				}
				if format == "json" {
					return writeIndented(w, filtered)
				}
				return dataset.WriteMembers(w, filtered)
			case "ministers":
				appointments, err := dataset.ReadAppointmentsFile(*dataDir)
				if err != nil {
					return err
				}
				var filtered []model.Appointment
				for _, a := range appointments {
					if party != "" && !strings.EqualFold(a.Party, party) {
						continue
					}
					if cabinet != "" && !strings.EqualFold(a.Cabinet, cabinet) {
						continue
					}
					filtered = append(filtered, a)
				}
				if format == "json" {
					return writeIndented(w, filtered)
				}
				return dataset.WriteAppointments(w, filtered)
			default:
				return fmt.Errorf("file must be members or ministers, got %q", file)
			}
		},
	}
	cmd.Flags().StringVar(&file, "file", "members", "dataset to export: members or ministers")
	cmd.Flags().StringVar(&party, "party", "", "only rows for this party")
	cmd.Flags().StringVar(&cabinet, "cabinet", "", "only rows for this cabinet (ministers only)")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
