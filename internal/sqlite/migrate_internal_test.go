package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/learnpref/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		schemaDefinitions []string
		testQueries       []string
		wantErr           bool
	}{
		{
			name:              "empty schema",
			schemaDefinitions: []string{""},
			testQueries:       []string{"SELECT * FROM sqlite_schema"},
			wantErr:           false,
		},
		{
			name:              "create table",
			schemaDefinitions: []string{"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"},
			testQueries: []string{
				"INSERT INTO test (name) VALUES ('test')",
				"SELECT * FROM test",
			},
			wantErr: false,
		},
		{
			name: "drop table",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
				"", // drop table
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "add column",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
		{
			name: "remove column",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY)",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "create index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     false,
		},
		{
			name: "index survives table rebuild",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY); CREATE INDEX test_id ON test (id)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_id ON test (id)",
			},
			testQueries: []string{"DROP INDEX test_id"},
			wantErr:     false,
		},
		{
			name: "drop index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     true,
		},
		{
			name: "update index",
			schemaDefinitions: []string{
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (name)",
				"CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX test_name ON test (id, name)",
			},
			testQueries: []string{"DROP INDEX test_name"},
			wantErr:     false,
		},
		{
			name: "create trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     true,
		},
		{
			name: "delete trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
				"CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT )",
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
		{
			name: "update trigger",
			schemaDefinitions: []string{
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT RAISE ( FAIL, 'fail' ); END;`,
				`CREATE TABLE test ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER test_trigger AFTER INSERT ON test BEGIN SELECT 1; END;`,
			},
			testQueries: []string{"INSERT INTO test (name) VALUES ('test')"},
			wantErr:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			logger := testhelpers.NewLogger(io.Discard)
			db, err := connect(ctx, ":memory:", logger)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, db.Close()) })
			for _, schemaDefinition := range tt.schemaDefinitions {
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", schemaDefinition))
				err = db.migrate(ctx, schemaDefinition)
				require.NoError(t, err)
			}
			for _, query := range tt.testQueries {
				logger.LogAttrs(ctx, slog.LevelInfo, "executing", slog.String("query", query))
				_, err = db.ReadWrite.ExecContext(ctx, query)
				if tt.wantErr {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
			}
		})
	}
}

func TestNewDatabase(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := testhelpers.NewLogger(io.Discard)

	db, err := NewDatabase(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	require.NoError(t, db.Ping(ctx))

	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO sessions (token, data, expiry) VALUES ('token', x'00', julianday('now'))")
	require.NoError(t, err)

	// Writes are visible through the read-only handle.
	var count int
	require.NoError(t, db.ReadOnly.GetContext(ctx, &count, "SELECT count(*) FROM sessions"))
	require.Equal(t, 1, count)

	// Writing through the read-only handle fails.
	_, err = db.ReadOnly.ExecContext(ctx, "DELETE FROM sessions")
	require.Error(t, err)

	// Migrating to the same schema again is a no-op that keeps data.
	require.NoError(t, db.migrate(ctx, schemaDefinition))
	require.NoError(t, db.ReadOnly.GetContext(ctx, &count, "SELECT count(*) FROM sessions"))
	require.Equal(t, 1, count)

	var indexes []string
	require.NoError(t, db.ReadOnly.SelectContext(ctx, &indexes,
		"SELECT name FROM sqlite_schema WHERE type = 'index' AND sql IS NOT NULL"))
	require.Equal(t, []string{"sessions_expiry_idx"}, indexes)
}

func TestDatabase_migrate_keepsRows(t *testing.T) {
	ctx := context.Background()
	db, err := connect(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	require.NoError(t, db.migrate(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, legacy TEXT)"))
	_, err = db.ReadWrite.ExecContext(ctx, "INSERT INTO test (id, legacy) VALUES (7, 'x')")
	require.NoError(t, err)

	require.NoError(t, db.migrate(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT DEFAULT 'new')"))

	var rows []struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	require.NoError(t, db.ReadWrite.SelectContext(ctx, &rows, "SELECT id, name FROM test"))
	require.Len(t, rows, 1)
	require.Equal(t, 7, rows[0].ID)
	require.Equal(t, "new", rows[0].Name)
}
