package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/random"
)

// migrate ensures that the db schema matches schemaDefinition.
//
// The declarative migration:
//
//  1. drops tables missing from the target schema,
//  2. creates new tables,
//  3. rebuilds changed tables using the 12-step procedure https://www.sqlite.org/lang_altertable.html#otheralter,
//  4. drops indexes and triggers that are missing or changed, then creates the ones the target defines.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrate(ctx context.Context, schemaDefinition string) (err error) {
	// The target schema is created in a scratch in-memory database and attached so that both schemas can be
	// compared with plain queries.
	var randomID string
	if randomID, err = random.Letters(dbNameLength); err != nil {
		return errors.Wrap(err, "generate random ID")
	}
	targetDSN := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomID)
	var target *sqlx.DB
	if target, err = sqlx.ConnectContext(ctx, "sqlite3", targetDSN); err != nil {
		return errors.Wrap(err, "open schema target database")
	}
	defer func() {
		err = errors.Join(err, errors.Wrap(target.Close(), "close schema target database"))
	}()
	if _, err = target.ExecContext(ctx, schemaDefinition); err != nil {
		return errors.Wrap(err, "migrate schema target database")
	}

	// ATTACH and PRAGMA foreign_keys are per connection and not allowed inside a transaction, so the migration
	// holds a dedicated connection for its whole duration.
	var conn *sqlx.Conn
	if conn, err = db.ReadWrite.Connx(ctx); err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer func() {
		err = errors.Join(err, errors.Wrap(conn.Close(), "release connection"))
	}()

	// Step 1: Disable foreign key validation temporarily.
	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	// Step 12: Re-enable foreign key validation.
	defer func() {
		if _, fkErr := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "re-enable foreign key validation"))
		}
	}()

	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", targetDSN); err != nil {
		return errors.Wrap(err, "attach schema target database")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(context.WithoutCancel(ctx), "DETACH DATABASE schemaTarget"); detachErr != nil {
			err = errors.Join(err, errors.Wrap(detachErr, "detach schema target database"))
		}
	}()

	// Step 2: Start transaction.
	var tx *sqlx.Tx
	if tx, err = conn.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction", errors.SlogError(rollbackErr))
		}
	}()

	// Steps 3-7.
	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}

	// Step 8: Recreate indexes and triggers. Rebuilt tables lost theirs in step 6.
	if err = db.migrateObjects(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate indexes and triggers")
	}

	// Step 9 is skipped because the schema has no views.

	// Step 10: Check foreign key constraints.
	var violations []string
	if err = tx.SelectContext(ctx, &violations, "SELECT \"table\" FROM pragma_foreign_key_check"); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations after migration",
			slog.String("tables", strings.Join(violations, ",")))
	}

	// Step 11: Commit transaction from step 2.
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

// migrateTables ensures table schema is synchronized between databases.
func (db *Database) migrateTables(ctx context.Context, tx *sqlx.Tx) error {
	var err error

	var deletedTables []string
	if err = tx.SelectContext(ctx, &deletedTables, `SELECT current.name
FROM sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type = 'table' AND target.type IS NULL AND current.name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query deleted tables")
	}
	for _, table := range deletedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quoteIdentifier(table))); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	var newTableSQLs []string
	if err = tx.SelectContext(ctx, &newTableSQLs, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type = 'table' AND current.type IS NULL AND target.name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query new tables")
	}
	for _, newTableSQL := range newTableSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", newTableSQL))
		if _, err = tx.ExecContext(ctx, newTableSQL); err != nil {
			return errors.Wrap(err, "create table")
		}
	}

	var changed []changedTable
	if changed, err = queryChangedTables(ctx, tx); err != nil {
		return errors.Wrap(err, "query changed tables")
	}
	for _, table := range changed {
		if err = db.rebuildTable(ctx, tx, table); err != nil {
			return errors.Wrap(err, "rebuild table", slog.String("table", table.Name))
		}
	}
	return nil
}

// rebuildTable runs steps 4-7 of the 12-step procedure for a table whose definition changed.
func (db *Database) rebuildTable(ctx context.Context, tx *sqlx.Tx, table changedTable) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
		slog.String("table", table.Name),
		slog.String("current_sql", table.CurrentSQL),
		slog.String("new_sql", table.NewSQL))

	// Step 4: Create table according to new schema on a temporary name.
	tempName := table.Name + "_migration_temp"
	tempNameSQL := strings.Replace(table.NewSQL, table.Name, tempName, 1)
	if _, err := tx.ExecContext(ctx, tempNameSQL); err != nil {
		return errors.Wrap(err, "create new table to temporary name", slog.String("query", tempNameSQL))
	}

	// Step 5: Copy common columns between tables. Column names are quoted in case they are SQLite keywords.
	var commonColumns []string
	if err := tx.SelectContext(ctx, &commonColumns, `SELECT '"' || target.name || '"'
FROM pragma_table_info(:table_name) AS current
JOIN pragma_table_info(:table_name, 'schemaTarget') AS target ON target.name = current.name`,
		sql.Named("table_name", table.Name)); err != nil {
		return errors.Wrap(err, "query common columns")
	}
	if len(commonColumns) > 0 {
		common := strings.Join(commonColumns, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", //nolint:gosec // identifiers come from schema.
			quoteIdentifier(tempName), common, common, quoteIdentifier(table.Name))
		db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
		if _, err := tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy data")
		}
	}

	// Step 6: Drop the old table.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", quoteIdentifier(table.Name))); err != nil {
		return errors.Wrap(err, "drop old table")
	}

	// Step 7: Rename new table to old table's name.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s",
		quoteIdentifier(tempName), quoteIdentifier(table.Name))); err != nil {
		return errors.Wrap(err, "rename new table")
	}
	return nil
}

// migrateObjects synchronises indexes and triggers. Implicit indexes backing constraints have no SQL and are left
// to SQLite.
func (db *Database) migrateObjects(ctx context.Context, tx *sqlx.Tx) error {
	var err error

	type object struct {
		Type string `db:"type"`
		Name string `db:"name"`
	}
	var stale []object
	if err = tx.SelectContext(ctx, &stale, `SELECT current.type AS type, current.name AS name
FROM sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type IN ('index', 'trigger') AND current.sql IS NOT NULL
  AND (target.type IS NULL OR current.sql <> target.sql)`); err != nil {
		return errors.Wrap(err, "query stale objects")
	}
	for _, o := range stale {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping "+o.Type, slog.String("name", o.Name))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP %s %s", strings.ToUpper(o.Type),
			quoteIdentifier(o.Name))); err != nil {
			return errors.Wrap(err, "drop object", slog.String("type", o.Type), slog.String("name", o.Name))
		}
	}

	var missingSQLs []string
	if err = tx.SelectContext(ctx, &missingSQLs, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type IN ('index', 'trigger') AND target.sql IS NOT NULL AND current.type IS NULL`); err != nil {
		return errors.Wrap(err, "query missing objects")
	}
	for _, objectSQL := range missingSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating object", slog.String("query", objectSQL))
		if _, err = tx.ExecContext(ctx, objectSQL); err != nil {
			return errors.Wrap(err, "create object", slog.String("query", objectSQL))
		}
	}
	return nil
}

type changedTable struct {
	Name       string `db:"name"`
	CurrentSQL string `db:"current_sql"`
	NewSQL     string `db:"new_sql"`
}

// queryChangedTables returns the tables whose definition differs between the current and the target schema.
func queryChangedTables(ctx context.Context, tx *sqlx.Tx) ([]changedTable, error) {
	var changed []changedTable
	if err := tx.SelectContext(ctx, &changed, `SELECT current.name AS name, current.sql AS current_sql,
       target.sql AS new_sql
FROM sqlite_schema AS current
JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type = 'table' AND current.name NOT LIKE 'sqlite_%' AND current.sql <> target.sql`); err != nil {
		return nil, errors.Wrap(err, "select")
	}
	return changed, nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
