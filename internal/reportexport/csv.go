// Package reportexport renders dashboard reports as CSV or XLSX downloads.
package reportexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns is the header of the flat breakdown table shared by both formats.
var columns = []string{
	"Dimension",
	"Group",
	"Installments",
	"Total Due",
	"Collected",
	"Penalties",
	"Collection Rate (%)",
}

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx"; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", domain.NewValidationError("format", "must be csv or xlsx")
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write renders the report in the given format.
func Write(w io.Writer, format Format, report *domain.DashboardReport) error {
	if format == FormatCSV {
		return WriteCSV(w, report)
	}
	return WriteXLSX(w, report)
}

// WriteCSV writes the report as one flat table preceded by a BOM. The first
// data row is the yearly total.
func WriteCSV(w io.Writer, report *domain.DashboardReport) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range tableRows(report) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// tableRows flattens the report into the rows of the breakdown table.
func tableRows(report *domain.DashboardReport) [][]string {
	var rows [][]string
	if s := report.Summary; s != nil {
		rows = append(rows, []string{
			"Total", strconv.Itoa(report.Year), strconv.Itoa(s.Installments),
			formatMoney(s.TotalDue), formatMoney(s.Collected), formatMoney(s.Penalties),
			formatRate(s.CollectionRate),
		})
	}
	sections := []struct {
		name string
		rows []domain.BreakdownRow
	}{
		{"Quarter", report.ByQuarter},
		{"Location", report.ByLocation},
		{"Classification", report.ByClassification},
	}
	for _, sec := range sections {
		for i := range sec.rows {
			r := &sec.rows[i]
			rows = append(rows, []string{
				sec.name, r.Key, strconv.Itoa(r.Count),
				formatMoney(r.TotalDue), formatMoney(r.Collected), formatMoney(r.Penalties),
				formatRate(r.CollectionRate),
			})
		}
	}
	return rows
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [A-Za-z0-9_-] with _, collapses
// repeats and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the Content-Disposition filename for a report export.
// Format: dashboard_{year}[_{entity_type}]_{YYYY-MM-DD}.{ext}
func BuildFilename(report *domain.DashboardReport, format Format, now time.Time) string {
	name := fmt.Sprintf("dashboard_%d", report.Year)
	if report.EntityType != nil {
		name += "_" + string(*report.EntityType)
	}
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
