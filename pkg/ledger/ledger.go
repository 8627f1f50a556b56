package ledger

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/pseudomuto/dbmigrate/pkg/parser"
	"github.com/pseudomuto/dbmigrate/pkg/utils"
)

type (
	// Options configures a Ledger.
	Options struct {
		// Dialect is the registered dialect name, e.g. "sqlite" or "postgres"
		Dialect string

		// DSN is the driver specific connection string
		DSN string

		// Schema overrides the dialect's default schema
		Schema string

		// Table overrides the dialect's default ledger table name
		Table string

		// Queries overrides individual templates of the dialect
		Queries Queries

		// Logger defaults to slog.Default()
		Logger *slog.Logger
	}

	// Ledger is the database backed record of applied migrations.
	Ledger struct {
		db        *sql.DB
		dialect   Dialect
		queries   Queries
		schema    string
		table     string
		tableName string
		logger    *slog.Logger
	}

	execer interface {
		ExecContext(context.Context, string, ...any) (sql.Result, error)
	}
)

// Open connects to the database described by opts and verifies the connection.
//
// Example:
//
//	l, err := ledger.Open(ctx, ledger.Options{
//		Dialect: "sqlite",
//		DSN:     "file:app.db",
//	})
func Open(ctx context.Context, opts Options) (*Ledger, error) {
	d, err := Lookup(opts.Dialect)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.Driver, opts.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", d.Name)
	}

	if d.MaxOpenConns > 0 {
		db.SetMaxOpenConns(d.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s database", d.Name)
	}

	return New(db, d, opts), nil
}

// New wraps an open database handle. Only the Schema, Table, Queries and
// Logger fields of opts are used.
func New(db *sql.DB, d Dialect, opts Options) *Ledger {
	schema := opts.Schema
	if schema == "" {
		schema = d.DefaultSchema
	}

	table := opts.Table
	if table == "" {
		table = d.DefaultTable
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		db:        db,
		dialect:   d,
		queries:   d.Queries.Merge(opts.Queries),
		schema:    schema,
		table:     table,
		tableName: utils.QualifiedName(schema, table, d.Quote),
		logger:    logger,
	}
}

// Close closes the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Dialect returns the dialect the ledger was opened with.
func (l *Ledger) Dialect() Dialect {
	return l.dialect
}

// Queries returns the effective templates after overrides.
func (l *Ledger) Queries() Queries {
	return l.queries
}

// TableName returns the quoted, schema qualified ledger table name.
func (l *Ledger) TableName() string {
	return l.tableName
}

// TableExists reports whether the ledger table exists.
func (l *Ledger) TableExists(ctx context.Context) (bool, error) {
	query, args, err := l.prepare(l.queries.TableExists, nil)
	if err != nil {
		return false, err
	}

	var count int64
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, errors.Wrap(err, "failed to check for ledger table")
	}

	return count > 0, nil
}

// EnsureTableExists creates the ledger table unless it already exists.
func (l *Ledger) EnsureTableExists(ctx context.Context) error {
	exists, err := l.TableExists(ctx)
	if err != nil || exists {
		return err
	}

	query, args, err := l.prepare(l.queries.CreateTable, nil)
	if err != nil {
		return err
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to create ledger table %s", l.tableName)
	}

	l.logger.Info("Created ledger table", "table", l.tableName)
	return nil
}

// GetAppliedMigrations returns every recorded migration ordered by name. A
// missing ledger table reads as an empty ledger.
func (l *Ledger) GetAppliedMigrations(ctx context.Context) ([]*migrator.Migration, error) {
	exists, err := l.TableExists(ctx)
	if err != nil {
		return nil, err
	}

	migrations := []*migrator.Migration{}
	if !exists {
		return migrations, nil
	}

	query, args, err := l.prepare(l.queries.SelectMigrations, nil)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ledger")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			m          migrator.Migration
			executedOn any
		)

		if err := rows.Scan(&m.Name, &m.Checksum, &executedOn, &m.Content); err != nil {
			return nil, errors.Wrap(err, "failed to scan ledger row")
		}

		if m.AppliedAt, err = parseTime(executedOn); err != nil {
			return nil, errors.Wrapf(err, "invalid ExecutedOn for %s", m.Name)
		}

		migrations = append(migrations, &m)
	}

	return migrations, errors.Wrap(rows.Err(), "failed to read ledger")
}

// Insert records m without running its content.
func (l *Ledger) Insert(ctx context.Context, m *migrator.Migration) error {
	return l.insert(ctx, l.db, m)
}

// ExecuteInTransaction runs script atomically where the dialect allows it.
func (l *Ledger) ExecuteInTransaction(ctx context.Context, script string) error {
	return l.inTx(ctx, func(ex execer) error {
		return l.execScript(ctx, ex, script)
	})
}

// ApplyMigration runs the migration's content and records it in the same
// transaction.
func (l *Ledger) ApplyMigration(ctx context.Context, m *migrator.Migration) error {
	return l.inTx(ctx, func(ex execer) error {
		if err := l.execScript(ctx, ex, m.Content); err != nil {
			return err
		}

		return l.insert(ctx, ex, m)
	})
}

// ClearAll drops every table and view in the ledger's schema, including the
// ledger itself.
func (l *Ledger) ClearAll(ctx context.Context) error {
	query, args, err := l.prepare(l.queries.DropAll, nil)
	if err != nil {
		return err
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to list database objects")
	}

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			_ = rows.Close()
			return errors.Wrap(err, "failed to scan drop statement")
		}
		stmts = append(stmts, stmt)
	}

	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return errors.Wrap(err, "failed to list database objects")
	}
	_ = rows.Close()

	l.logger.Warn("Dropping all database objects", "count", len(stmts), "schema", l.schema)

	return l.inTx(ctx, func(ex execer) error {
		for _, stmt := range stmts {
			if _, err := ex.ExecContext(ctx, stmt); err != nil {
				return errors.Wrapf(err, "failed to execute: %s", stmt)
			}
		}
		return nil
	})
}

func (l *Ledger) insert(ctx context.Context, ex execer, m *migrator.Migration) error {
	query, args, err := l.prepare(l.queries.InsertMigration, map[string]any{
		"ScriptName": m.Name,
		"MD5":        m.Checksum,
		"ExecutedOn": m.AppliedAt.UTC(),
		"Content":    m.Content,
	})
	if err != nil {
		return err
	}

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to record migration %s", m.Name)
	}

	return nil
}

func (l *Ledger) inTx(ctx context.Context, fn func(execer) error) error {
	if !l.dialect.Transactional {
		l.logger.Warn("Dialect does not support transactions, statements are not applied atomically",
			"dialect", l.dialect.Name)
		return fn(l.db)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if stmt := strings.TrimSpace(l.queries.ConfigureTransaction); stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "failed to configure transaction")
		}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return errors.Wrap(tx.Commit(), "failed to commit transaction")
}

func (l *Ledger) execScript(ctx context.Context, ex execer, script string) error {
	stmts := []string{script}
	if l.dialect.SplitStatements {
		var err error
		if stmts, err = parser.Split(script); err != nil {
			return err
		}
	}

	for _, stmt := range stmts {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// prepare renders a template and binds its named parameters. The table and
// schema parameters are always available.
func (l *Ledger) prepare(template string, params map[string]any) (string, []any, error) {
	if strings.TrimSpace(template) == "" {
		return "", nil, errors.Errorf("dialect %s has no query for this operation", l.dialect.Name)
	}

	schema := ""
	if l.schema != "" {
		schema = utils.QuoteIdentifier(l.schema, l.dialect.Quote)
	}

	query := strings.NewReplacer("{TableName}", l.tableName, "{Schema}", schema).Replace(template)

	all := map[string]any{"TableName": l.table, "Schema": l.schema}
	for k, v := range params {
		all[k] = v
	}

	return bind(query, l.dialect.Placeholder, all)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

// parseTime converts the driver representation of ExecutedOn to UTC.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, errors.Errorf("unrecognized time %q", t)
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, errors.Errorf("unsupported time type %T", v)
	}
}
