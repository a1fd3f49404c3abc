package legacy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"revportal/internal/domain"
	"revportal/internal/port"
)

// ImportOptions controls a single import run.
type ImportOptions struct {
	DryRun bool
	// AsOf is the day used to count rows that are active after the import.
	AsOf domain.Date
}

// ImportResult counts imported rows per kind.
type ImportResult struct {
	Imported map[domain.ConfigKind]int `json:"imported"`
	Active   map[domain.ConfigKind]int `json:"active"`
	AsOf     domain.Date               `json:"as_of"`
	Skipped  []Skipped                 `json:"skipped"`
	DryRun   bool                      `json:"dry_run"`
}

// Total returns the number of imported rows across all kinds.
func (r *ImportResult) Total() int {
	n := 0
	for _, c := range r.Imported {
		n += c
	}
	return n
}

// Importer copies legacy rate tables into the configuration store.
type Importer struct {
	reader  *Reader
	configs port.TaxConfigRepository
	tx      port.TxManager
	log     *zap.Logger
}

// NewImporter creates an Importer.
func NewImporter(reader *Reader, configs port.TaxConfigRepository, tx port.TxManager, log *zap.Logger) *Importer {
	return &Importer{reader: reader, configs: configs, tx: tx, log: log}
}

// Import reads every legacy table and inserts the converted rows in a single
// transaction. With DryRun set nothing is written.
func (im *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	configs, skipped, err := im.reader.ReadConfigs(ctx)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{
		Imported: make(map[domain.ConfigKind]int, len(domain.AllConfigKinds)),
		Active:   make(map[domain.ConfigKind]int, len(domain.AllConfigKinds)),
		AsOf:     opts.AsOf,
		Skipped:  skipped,
		DryRun:   opts.DryRun,
	}
	for _, s := range skipped {
		im.log.Warn("legacy row skipped",
			zap.String("table", s.Table),
			zap.Int64("legacy_id", s.LegacyID),
			zap.String("reason", s.Reason))
	}

	if opts.DryRun {
		for i := range configs {
			res.Imported[configs[i].Kind]++
		}
		im.countActive(res, configs)
		return res, nil
	}

	err = im.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range configs {
			cfg := &configs[i]
			if err := im.configs.Create(txCtx, cfg); err != nil {
				return fmt.Errorf("importing %s row effective %s: %w", cfg.Kind, cfg.EffectiveDate, err)
			}
			res.Imported[cfg.Kind]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.countActive(res, configs)
	im.log.Info("legacy import finished", zap.Int("imported", res.Total()), zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

// countActive tallies rows in effect on opts.AsOf and warns about imported
// kinds that end up with none, since lookups would then fall back to defaults.
func (im *Importer) countActive(res *ImportResult, configs []domain.TaxConfig) {
	for i := range configs {
		if configs[i].ActiveOn(res.AsOf) {
			res.Active[configs[i].Kind]++
		}
	}
	for kind, n := range res.Imported {
		if n > 0 && res.Active[kind] == 0 {
			im.log.Warn("no imported row is active",
				zap.String("kind", string(kind)),
				zap.String("as_of", res.AsOf.String()))
		}
	}
}
