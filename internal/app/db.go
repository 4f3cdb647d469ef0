package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/speedrun-browser/internal/config"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/platform/pgdsn"
)

const maxTracedQueryLength = 512

var (
	queryWhitespace = regexp.MustCompile(`\s+`)
	queryLiteral    = regexp.MustCompile(`'(?:[^']|'')*'`)
)

func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dsn := cfg.DBURL
	if cfg.DBDisablePreparedBinary {
		dsn = pgdsn.DisablePreparedBinary(dsn)
	}

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := pgdsn.DatabaseName(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres %s: %w", pgdsn.Redact(dsn), err)
	}

	logger.Info("postgres connected", "dsn", pgdsn.Redact(dsn))
	return db, nil
}

// formatDBQueryForTrace collapses whitespace, blanks string literals and caps
// the statement length.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespace.ReplaceAllString(query, " ")
	normalized = queryLiteral.ReplaceAllString(normalized, "'?'")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
