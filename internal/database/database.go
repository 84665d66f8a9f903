package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConns          = 10
	minConns          = 1
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = time.Minute
	pingAttempts      = 5
)

// Connect builds a bounded pool. It does not wait for the server; see WaitForDB.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLifetime
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	return pool, nil
}

// WaitForDB pings with a linear backoff and reports whether the database
// answered.
func WaitForDB(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) bool {
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		err := pool.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "database connection established")
			return true
		}

		wait := time.Duration(attempt) * 500 * time.Millisecond
		logger.WarnContext(ctx, "database ping failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", pingAttempts),
			slog.Duration("retry_in", wait),
			slog.String("error", err.Error()),
		)
		if attempt == pingAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
	return false
}
