// Package report renders filter and ranking results for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/ranking"
	"github.com/ted-design/talentmatch/internal/talent"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates an output format name. Empty selects the table.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q: expected table or json", s)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteRecords prints one row per record with the raw value of every
// measurement present anywhere in records.
func WriteRecords(w io.Writer, records []*talent.Record) error {
	keys := presentKeys(records)
	labels := measurement.DefaultLabels()

	tw := newTable(w)
	header := []string{"ID", "NAME", "GENDER", "AGENCY", "CASTINGS"}
	for _, k := range keys {
		header = append(header, strings.ToUpper(labels.Label(k)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, rec := range records {
		row := []string{rec.ID, rec.Name, dash(rec.Gender), dash(rec.Agency), fmt.Sprint(len(rec.CastingSessions))}
		for _, k := range keys {
			row = append(row, dash(rec.Measurement(k).String()))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func presentKeys(records []*talent.Record) []measurement.Key {
	var keys []measurement.Key
	for _, k := range measurement.Keys() {
		for _, rec := range records {
			if !rec.Measurement(k).IsAbsent() {
				keys = append(keys, k)
				break
			}
		}
	}
	return keys
}

// WriteRanking prints ranked entries with the fit ratio of each required field.
func WriteRanking(w io.Writer, brief talent.Brief, entries []ranking.Entry) error {
	if brief.Name != "" {
		fmt.Fprintf(w, "%s (%s)\n", brief.Name, dash(brief.Gender))
	}

	tw := newTable(w)
	header := []string{"#", "NAME", "AGENCY", "SCORE", "MEASURED"}
	if len(entries) > 0 {
		for _, d := range entries[0].FieldDetails {
			header = append(header, strings.ToUpper(d.Label))
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, e := range entries {
		row := []string{
			fmt.Sprint(i + 1),
			e.Talent.Name,
			dash(e.Talent.Agency),
			fmt.Sprintf("%.2f", e.OverallScore),
			fmt.Sprintf("%d/%d", e.MeasuredFieldCount, e.RequiredFieldCount),
		}
		if !e.GenderMatch {
			row[3] += " (gender)"
		}
		for _, d := range e.FieldDetails {
			if !d.Measured() {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%s (%.2f)", formatFloat(*d.ParsedValue), d.Ratio))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// WriteParsed prints each raw input next to its parsed value.
func WriteParsed(w io.Writer, inputs []string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "INPUT\tINCHES")
	for _, in := range inputs {
		out := "-"
		if v, ok := measurement.ParseString(in); ok {
			out = formatFloat(v)
		}
		fmt.Fprintf(tw, "%s\t%s\n", in, out)
	}
	return tw.Flush()
}

// ByAgency groups records by agency for a quick overview.
func ByAgency(records []*talent.Record) map[string][]map[string]string {
	out := make(map[string][]map[string]string)
	for _, rec := range records {
		agency := rec.Agency
		if strings.TrimSpace(agency) == "" {
			agency = "independent"
		}
		out[agency] = append(out[agency], map[string]string{
			"id":     rec.ID,
			"name":   rec.Name,
			"gender": rec.Gender,
			"email":  rec.Email,
		})
	}
	return out
}

// DumpToTmpFile writes v as JSON to a new temporary file and returns its name.
func DumpToTmpFile(pattern string, v any) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteJSON(file, v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
