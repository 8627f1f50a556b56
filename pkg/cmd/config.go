package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/ledger"
	"github.com/urfave/cli/v3"
)

// configCmd creates the config command with subcommands for inspecting and
// expanding the project configuration.
//
// Subcommands:
//   - show: Print the effective configuration
//   - save: Write the dialect's ledger queries into the config file so they
//     can be customised
func configCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Inspect or update the project configuration",
		Before: requireConfig(cfg),
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return cfg.Save(output(cmd))
				},
			},
			{
				Name:  "save",
				Usage: "Write the default ledger queries for the dialect to the config file",
				Description: `Every ledger query that is not already overridden in the config file is
written to it, using the defaults of the configured dialect. Existing
overrides are kept.`,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					d, err := ledger.Lookup(cfg.Dialect)
					if err != nil {
						return err
					}

					cfg.Queries = d.Queries.Merge(cfg.Queries)

					path := cfg.Path
					if path == "" {
						path = consts.DefaultConfigFile
					}

					if err := cfg.SaveFile(path); err != nil {
						return err
					}

					fmt.Fprintf(output(cmd), "Saved %s queries to %s\n", d.Name, path)
					return nil
				},
			},
		},
	}
}
