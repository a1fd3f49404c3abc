package ratesheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"revportal/internal/domain"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 500

// WriteSQL renders configs as a transactional INSERT script for tax_configs.
func WriteSQL(w io.Writer, configs []domain.TaxConfig) error {
	var b strings.Builder
	b.WriteString("-- Rate table seed generated from a rate workbook.\n")
	fmt.Fprintf(&b, "-- %d rows in batches of %d.\n", len(configs), batchSize)
	b.WriteString("BEGIN;\n")

	for start := 0; start < len(configs); start += batchSize {
		end := start + batchSize
		if end > len(configs) {
			end = len(configs)
		}
		b.WriteString("\nINSERT INTO tax_configs (kind, business_type, fee_name, min_amount, max_amount, percent, amount, effective_date, expiration_date, remarks) VALUES\n")
		for i := start; i < end; i++ {
			if i > start {
				b.WriteString(",\n")
			}
			writeValues(&b, &configs[i])
		}
		b.WriteString(";\n")
	}

	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeValues(b *strings.Builder, c *domain.TaxConfig) {
	expiration := "NULL"
	if c.ExpirationDate != nil {
		expiration = quote(c.ExpirationDate.String())
	}
	fmt.Fprintf(b, "  (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)",
		quote(string(c.Kind)),
		optionalText(c.BusinessType),
		optionalText(c.FeeName),
		optionalNumber(c.MinAmount, 2),
		optionalNumber(c.MaxAmount, 2),
		optionalNumber(c.Percent, 4),
		optionalNumber(c.Amount, 2),
		quote(c.EffectiveDate.String()),
		expiration,
		quote(c.Remarks))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func optionalText(s *string) string {
	if s == nil {
		return "NULL"
	}
	return quote(*s)
}

func optionalNumber(d *decimal.Decimal, places int32) string {
	if d == nil {
		return "NULL"
	}
	return d.StringFixed(places)
}
