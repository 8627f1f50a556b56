package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/executor"
	"github.com/pseudomuto/dbmigrate/pkg/ledger"
	"github.com/pseudomuto/dbmigrate/pkg/report"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
	"github.com/urfave/cli/v3"
)

const (
	formatColor   = "color"
	formatPlain   = "plain"
	formatUnified = "unified"
)

// connection identifies the database a command talks to.
type connection struct {
	Dialect string
	URL     string
	Schema  string
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "url",
		Aliases: []string{"u"},
		Usage:   "the database connection string",
		Sources: cli.EnvVars("DBMIGRATE_URL"),
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

func dialectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "dialect",
		Usage: "the database dialect, overrides the config",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

func schemaFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "schema",
		Usage: "the schema holding the ledger table, overrides the config",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "format",
		Aliases:     []string{"f"},
		Usage:       "how to render diffs: color, plain or unified",
		DefaultText: "color when writing to a terminal",
		Validator: func(s string) error {
			switch s {
			case formatColor, formatPlain, formatUnified:
				return nil
			default:
				return errors.Errorf("invalid format %q, expected color, plain or unified", s)
			}
		},
	}
}

// resolveConnection combines the connection flags with the config. A
// connection string is required.
func resolveConnection(cmd *cli.Command, cfg *config.Config) (connection, error) {
	conn := connection{
		Dialect: firstNonEmpty(cmd.String("dialect"), cfg.Dialect),
		URL:     firstNonEmpty(cmd.String("url"), cfg.URL),
		Schema:  firstNonEmpty(cmd.String("schema"), cfg.Schema),
	}

	if conn.URL == "" {
		return conn, errors.New("no connection string, use --url or set DBMIGRATE_URL")
	}

	return conn, nil
}

func openLedger(ctx context.Context, conn connection, cfg *config.Config) (*ledger.Ledger, error) {
	return ledger.Open(ctx, ledger.Options{
		Dialect: conn.Dialect,
		DSN:     conn.URL,
		Schema:  conn.Schema,
		Table:   cfg.Table,
		Queries: cfg.Queries,
	})
}

// newExecutor creates an executor over the configured script folders.
func newExecutor(l executor.Ledger, cfg *config.Config) (*executor.Executor, error) {
	repo := scripts.New(os.DirFS(cfg.Dir), scripts.Options{PreMigration: cfg.PreMigration})
	if err := repo.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scripts directory %s", cfg.Dir)
	}

	return executor.New(executor.Config{
		Ledger:      l,
		Scripts:     repo,
		DiffTimeout: cfg.Diff.Timeout,
	}), nil
}

// diffFormat returns the --format value, defaulting from the config's color
// setting.
func diffFormat(cmd *cli.Command, cfg *config.Config) string {
	if f := cmd.String("format"); f != "" {
		return f
	}

	if report.Colorize(cfg.Color) {
		return formatColor
	}

	return formatPlain
}

// writeDiff renders the change between the applied and the current content
// of a migration.
func writeDiff(w io.Writer, format string, cfg *config.Config, p *executor.Problem) error {
	if format == formatUnified {
		_, err := fmt.Fprint(w, report.Unified("applied/"+p.Name, "disk/"+p.Name, p.Before, p.After))
		return errors.Wrap(err, "failed to write diff")
	}

	return report.NewContextWriter(w, cfg.Diff.Context, format == formatColor).Write(p.Diff)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
