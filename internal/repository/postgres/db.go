package postgres

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"revportal/internal/config"
)

// NewDB creates a new PostgreSQL connection pool. The initial connection is
// retried with exponential backoff for up to cfg.ConnectTimeout.
func NewDB(cfg *config.DBConfig, log *zap.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("pgx", cfg.DSN())
		return err
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if cfg.ConnectTimeout > 0 {
		expBackoff := backoff.NewExponentialBackOff()
		expBackoff.InitialInterval = 500 * time.Millisecond
		expBackoff.MaxInterval = 5 * time.Second
		expBackoff.MaxElapsedTime = cfg.ConnectTimeout
		policy = expBackoff
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("database not reachable, retrying",
			zap.String("host", cfg.Host),
			zap.Duration("retry_in", wait),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}
