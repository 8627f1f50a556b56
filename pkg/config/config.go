package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/ledger"
	"gopkg.in/yaml.v3"
)

type (
	// Diff controls how changed migrations are explained.
	Diff struct {
		// Timeout bounds the diff of a single changed script. Longer diffs
		// fall back to a coarser result.
		Timeout time.Duration `yaml:"timeout,omitempty"`

		// Context is the number of unchanged lines shown around each change
		Context int `yaml:"context,omitempty"`
	}

	// Config represents the project configuration.
	Config struct {
		// Dialect is the ledger dialect, e.g. sqlite, postgres, mysql or
		// clickhouse
		Dialect string `yaml:"dialect"`

		// URL is the connection string. Usually supplied through the
		// environment rather than committed.
		URL string `yaml:"url,omitempty"`

		// Schema holds the ledger table. Empty uses the dialect default.
		Schema string `yaml:"schema,omitempty"`

		// Table is the name of the ledger table
		Table string `yaml:"table"`

		// Dir is the folder containing the script folders
		Dir string `yaml:"dir"`

		// PreMigration lists the folders whose scripts run before migrating
		PreMigration []string `yaml:"pre_migration,omitempty"`

		Diff Diff `yaml:"diff,omitempty"`

		// Color is one of auto, always or never
		Color string `yaml:"color,omitempty"`

		// Queries overrides the dialect's ledger queries
		Queries ledger.Queries `yaml:"queries,omitempty"`

		// Path is the file the config was loaded from, if any
		Path string `yaml:"-"`
	}
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a project configuration from the provided io.Reader.
//
// Missing values are defaulted: the sqlite dialect, the db directory, the
// Migrations table and a one second diff timeout.
//
// Example:
//
//	yamlData := `
//	dialect: postgres
//	dir: db
//	pre_migration:
//	  - Setup
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Dialect: %s\n", cfg.Dialect)
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}

	cfg.Path = path
	return cfg, nil
}

// Loaded reports whether the configuration came from a file.
func (c *Config) Loaded() bool {
	return c != nil && c.Path != ""
}

// Save writes the configuration as YAML.
func (c *Config) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	return errors.Wrap(enc.Close(), "failed to encode config")
}

// SaveFile writes the configuration to path, replacing any existing file.
func (c *Config) SaveFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", path)
	}

	if err := c.Save(f); err != nil {
		_ = f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "failed to write file: %s", path)
}

func (c *Config) applyDefaults() {
	if c.Dialect == "" {
		c.Dialect = consts.DefaultDialect
	}
	if c.Table == "" {
		c.Table = consts.DefaultTable
	}
	if c.Dir == "" {
		c.Dir = consts.DefaultDir
	}
	if c.Diff.Timeout == 0 {
		c.Diff.Timeout = consts.DefaultDiffTimeout
	}
	if c.Diff.Context == 0 {
		c.Diff.Context = consts.DefaultDiffContext
	}
	if c.Color == "" {
		c.Color = "auto"
	}
}
