package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/pseudomuto/dbmigrate/pkg/ledger"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, opts ledger.Options) *ledger.Ledger {
	t.Helper()

	opts.Dialect = "sqlite"
	opts.DSN = filepath.Join(t.TempDir(), "test.db")
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	l, err := ledger.Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	return l
}

func migration(name, content string, at time.Time) *migrator.Migration {
	return migrator.NewRecord(migrator.NewScript("Migrations", name, content), at)
}

func TestDialects(t *testing.T) {
	require.Equal(t, []string{"clickhouse", "mysql", "postgres", "sqlite"}, ledger.Dialects())

	d, err := ledger.Lookup("PostgreS")
	require.NoError(t, err)
	require.Equal(t, "pgx", d.Driver)
	require.Equal(t, ledger.Dollar, d.Placeholder)

	_, err = ledger.Lookup("oracle")
	require.ErrorIs(t, err, ledger.ErrUnknownDialect)
	require.Contains(t, err.Error(), "available: clickhouse, mysql, postgres, sqlite")

	require.Panics(t, func() { ledger.Register(ledger.Dialect{Name: "sqlite"}) })
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := ledger.Open(context.Background(), ledger.Options{Dialect: "nope"})
	require.ErrorIs(t, err, ledger.ErrUnknownDialect)
}

func TestQueries_Merge(t *testing.T) {
	base := ledger.Queries{TableExists: "a", CreateTable: "b", DropAll: "c"}
	got := base.Merge(ledger.Queries{CreateTable: "B", DropAll: "  "})

	require.Equal(t, "a", got.TableExists)
	require.Equal(t, "B", got.CreateTable)
	require.Equal(t, "c", got.DropAll)
}

func TestLedger_TableLifecycle(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{})
	require.Equal(t, `"Migrations"`, l.TableName())

	exists, err := l.TableExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	applied, err := l.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.NotNil(t, applied)
	require.Empty(t, applied)

	require.NoError(t, l.EnsureTableExists(ctx))
	require.NoError(t, l.EnsureTableExists(ctx), "second call is a no-op")

	exists, err = l.TableExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestLedger_InsertAndRead(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{Table: "SchemaVersions"})
	require.NoError(t, l.EnsureTableExists(ctx))

	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, l.Insert(ctx, migration("002.sql", "SELECT 2;", at)))
	require.NoError(t, l.Insert(ctx, migration("001.sql", "SELECT 1;", at.Add(time.Hour))))

	err := l.Insert(ctx, migration("001.sql", "SELECT 1;", at))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to record migration 001.sql")

	applied, err := l.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)

	require.Equal(t, "001.sql", applied[0].Name)
	require.Equal(t, migrator.Checksum("SELECT 1;"), applied[0].Checksum)
	require.Equal(t, "SELECT 1;", applied[0].Content)
	require.True(t, at.Add(time.Hour).Equal(applied[0].AppliedAt))
	require.Equal(t, "002.sql", applied[1].Name)
}

func TestLedger_ApplyMigration(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{})
	require.NoError(t, l.EnsureTableExists(ctx))

	t.Run("success", func(t *testing.T) {
		m := migration("001.sql", "CREATE TABLE users (id INTEGER PRIMARY KEY); INSERT INTO users VALUES (1);", time.Now())
		require.NoError(t, l.ApplyMigration(ctx, m))

		applied, err := l.GetAppliedMigrations(ctx)
		require.NoError(t, err)
		require.Len(t, applied, 1)
	})

	t.Run("failure rolls back", func(t *testing.T) {
		m := migration("002.sql", "CREATE TABLE orders (id INTEGER); INSERT INTO missing VALUES (1);", time.Now())
		require.Error(t, l.ApplyMigration(ctx, m))

		applied, err := l.GetAppliedMigrations(ctx)
		require.NoError(t, err)
		require.Len(t, applied, 1)

		// orders must not survive the rollback
		require.NoError(t, l.ExecuteInTransaction(ctx, "CREATE TABLE orders (id INTEGER);"))
	})
}

func TestLedger_ExecuteInTransaction(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{})

	require.NoError(t, l.ExecuteInTransaction(ctx, "CREATE TABLE t (id INTEGER); INSERT INTO t VALUES (1);"))
	require.Error(t, l.ExecuteInTransaction(ctx, "INSERT INTO t VALUES (2); SELECT * FROM nope;"))
	require.Error(t, l.ExecuteInTransaction(ctx, "CREATE TABLE t (id INTEGER);"), "table already exists")
}

func TestLedger_ClearAll(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{})
	require.NoError(t, l.EnsureTableExists(ctx))
	require.NoError(t, l.ApplyMigration(ctx, migration("001.sql",
		`CREATE TABLE "odd""name" (id INTEGER); CREATE VIEW v AS SELECT id FROM "odd""name";`, time.Now())))

	require.NoError(t, l.ClearAll(ctx))

	exists, err := l.TableExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	// every object is gone, so the script can run again
	require.NoError(t, l.ExecuteInTransaction(ctx,
		`CREATE TABLE "odd""name" (id INTEGER); CREATE VIEW v AS SELECT id FROM "odd""name";`))

	require.NoError(t, l.ClearAll(ctx))
	require.NoError(t, l.ClearAll(ctx), "clearing an empty database is fine")
}

func TestLedger_QueryOverrides(t *testing.T) {
	ctx := context.Background()
	l := openSQLite(t, ledger.Options{
		Queries: ledger.Queries{
			CreateTable: `CREATE TABLE {TableName} (
    ScriptName TEXT NOT NULL PRIMARY KEY,
    MD5 TEXT NOT NULL,
    ExecutedOn TEXT NOT NULL,
    Content TEXT NOT NULL,
    Note TEXT DEFAULT 'custom'
)`,
		},
	})

	require.Contains(t, l.Queries().CreateTable, "Note TEXT")
	require.NoError(t, l.EnsureTableExists(ctx))
	require.NoError(t, l.Insert(ctx, migration("001.sql", "SELECT 1;", time.Now())))

	applied, err := l.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.False(t, applied[0].AppliedAt.IsZero())
}
