// Package sqlite owns the application database: connection setup, declarative schema migration and maintenance.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/random"

	_ "embed"

	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

// Database holds separate handles for writes and reads.
//
// Writes go through a single connection so that SQLite never returns SQLITE_BUSY to the application, while reads
// are spread over a pool. See https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995.
type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

const (
	dbNameLength = 20
	maxReadConns = 10
)

// NewDatabase connects to the database, synchronises the schema with schema.sql and starts the background optimizer.
// The optimizer stops when ctx is cancelled.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	if err = db.migrate(ctx, schemaDefinition); err != nil {
		return nil, errors.Join(errors.Wrap(err, "synchronize schema"), db.Close())
	}

	go db.optimize(ctx, time.Hour)

	return db, nil
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// In-memory databases need shared cache mode so that both handles see the same data. A random name keeps
	// parallel tests from sharing a database. See https://www.sqlite.org/inmemorydb.html.
	readMode, readWriteMode := "mode=ro", "mode=rwc"
	if strings.Contains(url, ":memory:") {
		var randomID string
		if randomID, err = random.Letters(dbNameLength); err != nil {
			return nil, errors.Wrap(err, "generate random ID")
		}
		url = randomID
		readMode = "mode=memory&cache=shared"
		readWriteMode = readMode
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables concurrent readers.
		"_journal_mode=wal",
		// Wait on locks instead of failing with SQLITE_BUSY.
		"_busy_timeout=5000",
		// https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		"_foreign_keys=on",
		"_temp_store=memory",
	}, "&")

	// Options prefixed with '_' are pragmas documented at https://www.sqlite.org/pragma.html, the rest are URI
	// parameters documented at https://www.sqlite.org/uri.html.
	readConfig := fmt.Sprintf("file:%s?%s&_txlock=deferred&_query_only=true&%s", url, readMode, commonConfig)
	readWriteConfig := fmt.Sprintf("file:%s?%s&_txlock=immediate&%s", url, readWriteMode, commonConfig)

	// The read-write handle is opened first because it creates the database file the read-only handle expects.
	if readWriteDB, err = sqlx.ConnectContext(ctx, "sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database", slog.String("url", url))
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	if readDB, err = sqlx.ConnectContext(ctx, "sqlite3", readConfig); err != nil {
		return nil, errors.Join(errors.Wrap(err, "open read database", slog.String("url", url)), readWriteDB.Close())
	}
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Ping verifies that both handles reach the database.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.ReadWrite.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read-write database")
	}
	if err := db.ReadOnly.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read database")
	}
	return nil
}

// Close closes both handles.
func (db *Database) Close() error {
	var errs []error
	if err := db.ReadOnly.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read database"))
	}
	if err := db.ReadWrite.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read-write database"))
	}
	return errors.Join(errs...)
}
