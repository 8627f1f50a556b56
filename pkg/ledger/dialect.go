package ledger

import (
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownDialect is returned when no dialect is registered under a name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Placeholder styles for bound parameters.
const (
	// QuestionMark binds every parameter as ?.
	QuestionMark Placeholder = iota

	// Dollar binds parameters as $1, $2 and so on.
	Dollar
)

type (
	// Placeholder is the positional parameter syntax understood by a driver.
	Placeholder int

	// Queries holds the SQL templates used to manage the ledger table.
	//
	// Templates may contain the tokens {TableName} and {Schema} and the named
	// parameters @TableName, @Schema, @ScriptName, @MD5, @ExecutedOn and
	// @Content.
	Queries struct {
		// ConfigureTransaction runs at the start of every transaction
		ConfigureTransaction string `yaml:"configure_transaction,omitempty"`

		// TableExists returns a single count of matching tables
		TableExists string `yaml:"table_exists,omitempty"`

		// CreateTable creates the ledger table
		CreateTable string `yaml:"create_table,omitempty"`

		// SelectMigrations returns ScriptName, MD5, ExecutedOn and Content
		// ordered by ScriptName
		SelectMigrations string `yaml:"select_migrations,omitempty"`

		// InsertMigration records one applied script
		InsertMigration string `yaml:"insert_migration,omitempty"`

		// DropAll returns one row per statement needed to drop every object in
		// the schema
		DropAll string `yaml:"drop_all,omitempty"`
	}

	// Dialect describes how to talk to one kind of database.
	Dialect struct {
		// Name is the name used in configuration, e.g. "postgres"
		Name string

		// Driver is the database/sql driver name
		Driver string

		// Quote is the identifier quote character
		Quote string

		// Placeholder is the positional parameter syntax bound queries use
		Placeholder Placeholder

		// DefaultSchema is used when no schema is configured. Empty means the
		// connection's current schema.
		DefaultSchema string

		// DefaultTable is the ledger table name used when none is configured
		DefaultTable string

		// Transactional reports whether scripts can run inside a transaction
		Transactional bool

		// SplitStatements reports whether the driver only accepts one statement
		// per Exec
		SplitStatements bool

		// MaxOpenConns limits the connection pool. Zero means unlimited.
		MaxOpenConns int

		// Queries are the built-in templates for managing the ledger table
		Queries Queries
	}
)

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// Register makes a dialect available by name. It panics when a dialect is
// registered twice.
func Register(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()

	name := strings.ToLower(d.Name)
	if _, dup := dialects[name]; dup {
		panic("ledger: Register called twice for dialect " + d.Name)
	}
	dialects[name] = d
}

// Lookup returns the dialect registered under name, ignoring case.
func Lookup(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()

	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return Dialect{}, errors.Wrapf(ErrUnknownDialect, "%q (available: %s)", name, strings.Join(names(), ", "))
	}

	return d, nil
}

// Dialects returns the names of all registered dialects, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()

	return names()
}

func names() []string {
	out := make([]string, 0, len(dialects))
	for n := range dialects {
		out = append(out, n)
	}

	slices.Sort(out)
	return out
}

// Merge returns q with every non-empty template of overrides applied.
func (q Queries) Merge(overrides Queries) Queries {
	pick := func(base, override string) string {
		if strings.TrimSpace(override) != "" {
			return override
		}
		return base
	}

	return Queries{
		ConfigureTransaction: pick(q.ConfigureTransaction, overrides.ConfigureTransaction),
		TableExists:          pick(q.TableExists, overrides.TableExists),
		CreateTable:          pick(q.CreateTable, overrides.CreateTable),
		SelectMigrations:     pick(q.SelectMigrations, overrides.SelectMigrations),
		InsertMigration:      pick(q.InsertMigration, overrides.InsertMigration),
		DropAll:              pick(q.DropAll, overrides.DropAll),
	}
}

// The select and insert templates are shared by every built-in dialect.
const (
	selectMigrations = "SELECT ScriptName, MD5, ExecutedOn, Content FROM {TableName} ORDER BY ScriptName ASC"
	insertMigration  = "INSERT INTO {TableName} (ScriptName, MD5, ExecutedOn, Content) " +
		"VALUES (@ScriptName, @MD5, @ExecutedOn, @Content)"
)
