// Command importlegacy copies rate tables from the legacy SQLite export into
// the tax_configs table.
// Usage: go run ./cmd/importlegacy -sqlite legacy.db [-dry-run] [-as-of YYYY-MM-DD]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"revportal/internal/config"
	"revportal/internal/domain"
	"revportal/internal/legacy"
	"revportal/internal/logger"
	"revportal/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sqlitePath := flag.String("sqlite", "", "path to the legacy SQLite database (required)")
	dryRun := flag.Bool("dry-run", false, "read and validate rows without writing")
	asOfFlag := flag.String("as-of", "", "day used to count active rows (YYYY-MM-DD, default today)")
	flag.Parse()

	if *sqlitePath == "" {
		flag.Usage()
		return fmt.Errorf("-sqlite is required")
	}
	asOf := domain.Today()
	if *asOfFlag != "" {
		d, err := domain.ParseDate(*asOfFlag)
		if err != nil {
			return fmt.Errorf("-as-of: %w", err)
		}
		asOf = d
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zlog, err := logger.New(cfg.Log, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	src, err := legacy.Open(*sqlitePath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	db, err := postgres.NewDB(&cfg.DB, zlog)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	importer := legacy.NewImporter(
		legacy.NewReader(src),
		postgres.NewTaxConfigRepo(db),
		postgres.NewTxManager(db),
		zlog.Named("importlegacy"),
	)
	res, err := importer.Import(context.Background(), legacy.ImportOptions{DryRun: *dryRun, AsOf: asOf})
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
