// Command accrue runs a single penalty accrual pass and prints the result.
// Usage: go run ./cmd/accrue [-as-of YYYY-MM-DD]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"revportal/internal/config"
	"revportal/internal/domain"
	"revportal/internal/logger"
	"revportal/internal/repository/postgres"
	"revportal/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	asOfFlag := flag.String("as-of", "", "accrue as of this day (YYYY-MM-DD, default today)")
	flag.Parse()

	asOf := domain.Today()
	if *asOfFlag != "" {
		d, err := domain.ParseDate(*asOfFlag)
		if err != nil {
			return fmt.Errorf("parsing -as-of: %w", err)
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

	db, err := postgres.NewDB(&cfg.DB, zlog)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	penalties := service.NewPenaltyService(
		postgres.NewTaxConfigRepo(db),
		postgres.NewInstallmentRepo(db),
		zlog.Named("accrue"),
	)
	res := penalties.AccruePenalties(context.Background(), asOf)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if len(res.Warnings) > 0 {
		zlog.Warn("accrual finished with warnings", zap.Int("warnings", len(res.Warnings)))
	}
	return nil
}
