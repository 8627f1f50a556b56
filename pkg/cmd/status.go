package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/executor"
	"github.com/pseudomuto/dbmigrate/pkg/report"
	"github.com/urfave/cli/v3"
)

// status creates the status command for showing the reconciled state of
// every migration.
//
// The status command joins the ledger with the scripts on disk and shows one
// row per migration, followed by the number of migrations in each state.
// Nothing is executed and the ledger table is not created.
//
// Command flags:
//   - --url, -u: Connection string (or DBMIGRATE_URL)
//   - --dialect, --schema: Override the config
//   - --verbose, -v: Show a diff for every changed migration
//   - --format: How to render the diffs
//
// Example usage:
//
//	# Show migration status
//	dbmigrate status --url postgres://localhost/app
//
//	# Include diffs of changed migrations
//	dbmigrate status --url postgres://localhost/app --verbose
func status(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show migration status",
		Description: `Display the state of every migration for the specified database.

Each migration is one of:
- Consistent: applied and unchanged
- NewMigration: not applied yet and will be applied by the next run
- HasChangedOnDisk: applied, but the script has changed since
- MissingOnDisk: applied, but the script no longer exists
- UnexpectedExtraScript: not applied, but sorts before a script that was`,
		Before: requireConfig(cfg),
		Flags: []cli.Flag{
			urlFlag(),
			dialectFlag(),
			schemaFlag(),
			formatFlag(),
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show diffs of changed migrations",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conn, err := resolveConnection(cmd, cfg)
			if err != nil {
				return err
			}

			l, err := openLedger(ctx, conn, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = l.Close() }()

			exec, err := newExecutor(l, cfg)
			if err != nil {
				return err
			}

			rec, err := exec.Reconcile(ctx)
			if err != nil {
				return err
			}

			w := output(cmd)
			if rec.Len() == 0 {
				fmt.Fprintln(w, "No migrations found.")
				return nil
			}

			table := report.NewStatusTable(w, report.Colorize(cfg.Color))
			table.Append(rec)
			if err := table.Render(); err != nil {
				return err
			}

			fmt.Fprintln(w)
			fmt.Fprintln(w, "Summary:")
			if err := report.Summary(w, rec); err != nil {
				return err
			}

			if !cmd.Bool("verbose") {
				return nil
			}

			format := diffFormat(cmd, cfg)
			for i := range rec.Len() {
				if !rec.State(i).HasChangedOnDisk() {
					continue
				}

				entry := rec.Entry(i)
				p := &executor.Problem{
					Name:        entry.Key,
					State:       rec.State(i),
					Description: entry.Describe(rec.State(i)),
					Before:      entry.Migration.Content,
					After:       entry.Script.Content,
					Diff:        exec.Diff(entry.Migration.Content, entry.Script.Content),
				}

				fmt.Fprintln(w)
				fmt.Fprintf(w, "%s:\n\n", p.Description)
				if err := writeDiff(w, format, cfg, p); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
