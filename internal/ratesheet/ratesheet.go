// Package ratesheet reads rate tables maintained in an Excel workbook and
// renders them as TaxConfig rows or a SQL seed. Each config kind has its own
// sheet; columns are located by header name so their order is free.
package ratesheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"revportal/internal/domain"
)

// Sheet describes the worksheet holding one config kind.
type Sheet struct {
	Kind    domain.ConfigKind
	Name    string
	Columns []string
}

var commonColumns = []string{"Effective Date", "Expiration Date", "Remarks"}

// Sheets lists the worksheets read from a rate workbook, in seed order.
var Sheets = []Sheet{
	{domain.ConfigKindCapitalInvestment, "Capital Investment", append([]string{"Min Amount", "Max Amount", "Tax Percent"}, commonColumns...)},
	{domain.ConfigKindGrossSales, "Gross Sales", append([]string{"Business Type", "Tax Percent"}, commonColumns...)},
	{domain.ConfigKindRegulatoryFee, "Regulatory Fees", append([]string{"Fee Name", "Amount"}, commonColumns...)},
	{domain.ConfigKindDiscount, "Discount", append([]string{"Percent"}, commonColumns...)},
	{domain.ConfigKindPenalty, "Penalty", append([]string{"Percent"}, commonColumns...)},
}

// RowError reports a worksheet row that could not be converted.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

// Read parses every known sheet of the workbook. Missing sheets are skipped;
// invalid rows are returned as RowErrors and left out of the result.
func Read(r io.Reader) ([]domain.TaxConfig, []RowError, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	var (
		configs []domain.TaxConfig
		rowErrs []RowError
	)
	for _, sheet := range Sheets {
		if !present[sheet.Name] {
			continue
		}
		rows, err := f.GetRows(sheet.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", sheet.Name, err)
		}
		if len(rows) == 0 {
			continue
		}

		index := headerIndex(rows[0])
		for i := 1; i < len(rows); i++ {
			if blank(rows[i]) {
				continue
			}
			cfg, err := convertRow(sheet.Kind, index, rows[i])
			if err != nil {
				// spreadsheet rows are 1-based and the header is row 1
				rowErrs = append(rowErrs, RowError{Sheet: sheet.Name, Row: i + 1, Err: err})
				continue
			}
			configs = append(configs, *cfg)
		}
	}
	return configs, rowErrs, nil
}

// Template writes an empty workbook with one sheet per kind and its headers.
func Template(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, sheet := range Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		header := make([]interface{}, len(sheet.Columns))
		for j, col := range sheet.Columns {
			header[j] = col
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, bold); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	return index
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type rowReader struct {
	index map[string]int
	row   []string
}

func (r rowReader) get(col string) string {
	i, ok := r.index[normalizeHeader(col)]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r rowReader) text(col string) *string {
	v := r.get(col)
	if v == "" {
		return nil
	}
	return &v
}

func (r rowReader) number(col string, places int32) (*decimal.Decimal, error) {
	v := strings.TrimSuffix(strings.ReplaceAll(r.get(col), ",", ""), "%")
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, domain.NewValidationError(normalizeHeader(col), "%q is not a number", v)
	}
	d = d.Round(places)
	return &d, nil
}

// date accepts YYYY-MM-DD text, the legacy "no date" spellings, or an Excel
// date serial as produced by a date-formatted cell.
func (r rowReader) date(col string) (*domain.Date, error) {
	v := r.get(col)
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil, domain.NewValidationError(normalizeHeader(col), "%q is not a date", v)
		}
		d := domain.DateOf(t)
		return &d, nil
	}
	d, err := domain.ParseOptionalDate(v)
	if err != nil {
		return nil, domain.NewValidationError(normalizeHeader(col), "%s", err.Error())
	}
	return d, nil
}

func convertRow(kind domain.ConfigKind, index map[string]int, row []string) (*domain.TaxConfig, error) {
	r := rowReader{index: index, row: row}
	cfg := &domain.TaxConfig{Kind: kind, Remarks: r.get("Remarks")}

	effective, err := r.date("Effective Date")
	if err != nil {
		return nil, err
	}
	if effective == nil {
		return nil, domain.NewValidationError("effective date", "is required")
	}
	cfg.EffectiveDate = *effective
	if cfg.ExpirationDate, err = r.date("Expiration Date"); err != nil {
		return nil, err
	}

	switch kind {
	case domain.ConfigKindCapitalInvestment:
		if cfg.MinAmount, err = r.number("Min Amount", 2); err != nil {
			return nil, err
		}
		if cfg.MaxAmount, err = r.number("Max Amount", 2); err != nil {
			return nil, err
		}
		cfg.Percent, err = r.number("Tax Percent", 4)
	case domain.ConfigKindGrossSales:
		cfg.BusinessType = r.text("Business Type")
		cfg.Percent, err = r.number("Tax Percent", 4)
	case domain.ConfigKindRegulatoryFee:
		cfg.FeeName = r.text("Fee Name")
		cfg.Amount, err = r.number("Amount", 2)
	default:
		cfg.Percent, err = r.number("Percent", 4)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
