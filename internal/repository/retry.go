package repository

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"comanda/internal/logger"
)

const (
	maxAttempts  = 3
	firstBackoff = 100 * time.Millisecond
)

// missingColumn reports the undefined_column error class. These writes are
// never retried as-is; the caller degrades by resubmitting without the
// offending optional fields, tolerating a partially migrated schema.
func missingColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}

// transient reports errors worth retrying: network failures and Postgres
// connection-class errors. Schema and permission errors are not transient.
func transient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08 = connection exception, 57P01 = admin shutdown
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// withRetry runs fn with a small fixed retry budget and exponential backoff,
// retrying transient failures only.
func withRetry(ctx context.Context, lg *logger.Logger, action string, fn func(ctx context.Context) error) error {
	backoff := firstBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx); err == nil || !transient(err) {
			return err
		}
		lg.Error("retrying_transient_failure", err, map[string]any{"action": action, "attempt": attempt})
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}
