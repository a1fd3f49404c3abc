package reportexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"revportal/internal/domain"
)

const summarySheet = "Summary"

// WriteXLSX writes a workbook with a Summary sheet and one sheet per breakdown.
func WriteXLSX(w io.Writer, report *domain.DashboardReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, header, report); err != nil {
		return err
	}

	sheets := []struct {
		name string
		rows []domain.BreakdownRow
	}{
		{"By Quarter", report.ByQuarter},
		{"By Location", report.ByLocation},
		{"By Classification", report.ByClassification},
	}
	for _, s := range sheets {
		if err := writeBreakdownSheet(f, header, s.name, s.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, header int, report *domain.DashboardReport) error {
	s := report.Summary
	if s == nil {
		s = &domain.DashboardSummary{}
	}
	entityType := "all"
	if report.EntityType != nil {
		entityType = string(*report.EntityType)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Year", report.Year},
		{"Entity Type", entityType},
		{"Total Entities", s.TotalEntities},
		{"Pending Entities", s.PendingEntities},
		{"Approved Entities", s.ApprovedEntities},
		{"Rejected Entities", s.RejectedEntities},
		{"Installments", s.Installments},
		{"Paid Installments", s.PaidCount},
		{"Overdue Installments", s.OverdueCount},
		{"Total Due", s.TotalDue.InexactFloat64()},
		{"Collected", s.Collected.InexactFloat64()},
		{"Outstanding", s.Outstanding.InexactFloat64()},
		{"Penalties", s.Penalties.InexactFloat64()},
		{"Collection Rate (%)", s.CollectionRate},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func writeBreakdownSheet(f *excelize.File, header int, name string, rows []domain.BreakdownRow) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}

	head := []interface{}{"Group", "Installments", "Total Due", "Collected", "Penalties", "Collection Rate (%)"}
	if err := f.SetSheetRow(name, "A1", &head); err != nil {
		return fmt.Errorf("writing %q header: %w", name, err)
	}
	if err := f.SetCellStyle(name, "A1", "F1", header); err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		values := []interface{}{
			r.Key, r.Count,
			r.TotalDue.InexactFloat64(), r.Collected.InexactFloat64(), r.Penalties.InexactFloat64(),
			r.CollectionRate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("writing %q row %d: %w", name, i+2, err)
		}
	}
	return f.SetColWidth(name, "A", "A", 28)
}
