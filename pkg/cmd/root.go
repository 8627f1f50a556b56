package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Config     *config.Config
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run creates the dbmigrate CLI application and registers it to run when the
// fx application starts. The process exit code is reported through the
// Shutdowner.
//
// Global Flags:
//   - --dir, -d: Project directory (defaults to current directory)
//   - --config, -c: Config file relative to the project directory
//
// Before any command runs, the working directory is changed to --dir and the
// config file, if present, is loaded into the shared *config.Config.
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := newApp(p.Version.Version, p.Config, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func newApp(version string, cfg *config.Config, commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:  "dbmigrate",
		Usage: "Apply SQL migration scripts and keep a ledger of what ran",
		Description: `dbmigrate applies the SQL scripts of a project to a database in name
order and records each applied script, with its checksum and content, in a
ledger table. Scripts that were changed or removed after being applied, or
new scripts that sort before applied ones, stop the run and are reported with
a diff against the applied content.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "the project directory",
				Value:       ".",
				DefaultText: "Current directory",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the config file, relative to the project directory",
				Sources: cli.EnvVars("DBMIGRATE_CONFIG"),
				Value:   consts.DefaultConfigFile,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := os.Chdir(cmd.String("dir")); err != nil {
				return ctx, err
			}

			return ctx, loadConfig(cfg, cmd.String("config"))
		},
		Commands: commands,
	}
}

// loadConfig replaces cfg with the contents of path when the file exists.
func loadConfig(cfg *config.Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "failed to stat %s", path)
	}

	loaded, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}

	*cfg = *loaded
	return nil
}

func requireConfig(cfg *config.Config) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if !cfg.Loaded() {
			return ctx, errors.Errorf("%s not found, run `dbmigrate init` first", consts.DefaultConfigFile)
		}

		return ctx, nil
	}
}

// output returns the writer commands print to.
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
