// Command seedconfigs converts a rate workbook into a SQL seed file for the
// tax_configs table. Sheets are named after the config kinds; run with
// -template to get an empty workbook with the expected headers.
// Usage: go run ./cmd/seedconfigs -xlsx rates.xlsx [-out db/seeds/tax_configs.sql]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"revportal/internal/ratesheet"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("xlsx", "", "rate workbook to convert")
	outPath := flag.String("out", "db/seeds/tax_configs.sql", "SQL seed file to write")
	template := flag.String("template", "", "write an empty rate workbook to this path and exit")
	strict := flag.Bool("strict", false, "fail when any row is invalid instead of skipping it")
	flag.Parse()

	if *template != "" {
		out, err := os.Create(*template)
		if err != nil {
			return fmt.Errorf("create template: %w", err)
		}
		defer func() { _ = out.Close() }()
		if err := ratesheet.Template(out); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		log.Printf("template written to %s", *template)
		return nil
	}

	if *xlsxPath == "" {
		flag.Usage()
		return errors.New("-xlsx is required")
	}

	in, err := os.Open(*xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = in.Close() }()

	configs, rowErrs, err := ratesheet.Read(in)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		log.Printf("skipped %v", re)
	}
	if *strict && len(rowErrs) > 0 {
		return fmt.Errorf("%d invalid rows", len(rowErrs))
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := ratesheet.WriteSQL(out, configs); err != nil {
		return fmt.Errorf("write seed: %w", err)
	}
	log.Printf("wrote %d rows to %s (%d skipped)", len(configs), *outPath, len(rowErrs))
	return nil
}
