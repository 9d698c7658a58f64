package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/sqlite"
	"github.com/myrjola/learnpref/internal/testhelpers"
)

// Migrates a copy of the production database and checks that the sessions survived.
func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		sqliteURL string
		ok        bool
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd // 5 seconds
	defer cancel()

	if sqliteURL, ok = os.LookupEnv("LEARNPREF_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "LEARNPREF_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	var count int
	if err = db.ReadOnly.GetContext(ctx, &count, `SELECT COUNT(*) FROM sessions WHERE expiry > julianday('now')`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching session count", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "active session count", slog.Int("count", count))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
}
