package consts

import (
	"os"
	"time"
)

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the project configuration file looked up in the project directory
	DefaultConfigFile = "dbmigrate.yaml"

	// DefaultDir is the default folder holding the script folders
	DefaultDir = "db"

	// DefaultDialect is used when no dialect is configured
	DefaultDialect = "sqlite"

	// DefaultTable is the default name of the ledger table
	DefaultTable = "Migrations"

	// MigrationsFolder is the top-level folder holding ledger-tracked scripts
	MigrationsFolder = "Migrations"

	// DefaultDiffContext is the number of unchanged lines printed around a change
	DefaultDiffContext = 2

	// DefaultDiffTimeout bounds the diff computation of one changed script
	DefaultDiffTimeout = time.Second
)
