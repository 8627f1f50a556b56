package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/executor"
	"github.com/pseudomuto/dbmigrate/pkg/ledger"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
	"github.com/urfave/cli/v3"
)

// ErrNotLocal is returned when reinitializing a remote database without
// --force.
var ErrNotLocal = errors.New("reinitialize is only allowed on a local database, use --force to override")

// confirm asks the user a yes/no question, defaulting to no.
var confirm = func(message string) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}

	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}

	return answer, nil
}

// migrate creates the migrate command for applying pending migrations.
//
// Command flags:
//   - --url, -u: Connection string (or DBMIGRATE_URL)
//   - --dialect, --schema: Override the config
//   - --whatif: Show what would be executed without applying changes
//   - --sync-only: Record new migrations without executing them
//   - --reinitialize: Drop every object before migrating (local only unless --force)
//   - --yes: Skip the reinitialize confirmation
//   - --format: How to render diffs of changed scripts
//
// Example usage:
//
//	# Apply all pending migrations
//	dbmigrate migrate --url postgres://localhost/app
//
//	# Show what would be executed without applying
//	dbmigrate migrate --url postgres://localhost/app --whatif
//
//	# Rebuild a local development database from scratch
//	dbmigrate migrate --reinitialize --yes
func migrate(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"apply"},
		Usage:   "Apply pending migrations",
		Description: `Run the pre-migration scripts, apply all new migrations and run the
post-migration scripts.

Migrations are the scripts in the Migrations folder. They are applied in name
order, each in a transaction together with its ledger record. The run stops
at the first migration that fails, or that is inconsistent with the ledger:

- an applied script that changed on disk
- an applied script that no longer exists on disk
- a new script that sorts before an applied one

Every inconsistent migration is then listed, changed ones with a diff against
the applied content. Pre and post migration scripts run on every invocation
and are not recorded.`,
		Before: requireConfig(cfg),
		Flags: []cli.Flag{
			urlFlag(),
			dialectFlag(),
			schemaFlag(),
			formatFlag(),
			&cli.BoolFlag{
				Name:    "whatif",
				Aliases: []string{"dry-run"},
				Usage:   "Show what would be executed without applying changes",
			},
			&cli.BoolFlag{
				Name:  "sync-only",
				Usage: "Record new migrations in the ledger without executing them",
			},
			&cli.BoolFlag{
				Name:  "reinitialize",
				Usage: "Drop every table and view before migrating. Use with care!",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Allow --reinitialize on a remote database",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runMigrate(ctx, cmd, cfg)
		},
	}
}

func runMigrate(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	conn, err := resolveConnection(cmd, cfg)
	if err != nil {
		return err
	}

	opts := executor.Options{
		WhatIf:       cmd.Bool("whatif"),
		SyncOnly:     cmd.Bool("sync-only"),
		Reinitialize: cmd.Bool("reinitialize"),
	}

	if opts.Reinitialize {
		if err := checkReinitialize(cmd, conn, opts.WhatIf); err != nil {
			return err
		}
	}

	slog.Info("Starting migration execution",
		"dialect", conn.Dialect,
		"dir", cfg.Dir,
		"whatif", opts.WhatIf,
		"sync_only", opts.SyncOnly,
		"reinitialize", opts.Reinitialize,
	)

	l, err := openLedger(ctx, conn, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	exec, err := newExecutor(l, cfg)
	if err != nil {
		return err
	}

	results, err := exec.Run(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "failed to execute migrations")
	}

	return reportResults(output(cmd), results, diffFormat(cmd, cfg), cfg)
}

func checkReinitialize(cmd *cli.Command, conn connection, whatIf bool) error {
	if !cmd.Bool("force") {
		local, err := ledger.IsLocal(conn.Dialect, conn.URL)
		if err != nil {
			return err
		}

		if !local {
			return ErrNotLocal
		}
	}

	if whatIf || cmd.Bool("yes") {
		return nil
	}

	ok, err := confirm("Reinitializing drops every table and view in the database. Are you sure?")
	if err != nil {
		return errors.Wrap(err, "failed to confirm")
	}

	if !ok {
		return errors.New("reinitialize aborted")
	}

	return nil
}

func reportResults(w io.Writer, results []*executor.Result, format string, cfg *config.Config) error {
	var (
		successCount int
		failedCount  int
		skippedCount int
		pendingCount int
		failed       bool
	)

	for _, res := range results {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", phaseTitle(res.Kind))
		fmt.Fprintln(w)

		if res.NothingToDo {
			fmt.Fprintln(w, "  ℹ️  Nothing to do")
		}

		for _, r := range res.Results {
			name := r.Name
			if res.Kind != scripts.Migration && r.Collection != "" {
				name = "[" + r.Collection + "] " + r.Name
			}

			switch r.Status {
			case executor.StatusSuccess:
				fmt.Fprintf(w, "  ✅ %s completed in %v\n", name, r.ExecutionTime)
				successCount++
			case executor.StatusSynced:
				fmt.Fprintf(w, "  🔖 %s recorded without executing\n", name)
				successCount++
			case executor.StatusPending:
				fmt.Fprintf(w, "  ▶  %s would be executed\n", name)
				pendingCount++
			case executor.StatusSkipped:
				fmt.Fprintf(w, "  ⏭  %s (already applied)\n", name)
				skippedCount++
			case executor.StatusFailed:
				fmt.Fprintf(w, "  ❌ %s failed after %v\n", name, r.ExecutionTime)
				fmt.Fprintf(w, "     Error: %v\n", r.Error)
				failedCount++
			case executor.StatusRejected:
				fmt.Fprintf(w, "  🚫 %s\n", r.Error)
				failedCount++
			}
		}

		if !res.Success {
			failed = true
			if err := reportProblems(w, res.Problems, format, cfg); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Summary: %d successful, %d failed, %d skipped, %d pending\n",
		successCount, failedCount, skippedCount, pendingCount)
	fmt.Fprintln(w)

	if failed {
		fmt.Fprintln(w, "❌ Migration failed. Please review the errors above.")
		return errors.New("migration failed")
	}

	switch {
	case pendingCount > 0:
		fmt.Fprintln(w, "ℹ️  Run without --whatif to apply the pending scripts.")
	case successCount > 0:
		fmt.Fprintln(w, "✅ Migrations were successfully run.")
	default:
		fmt.Fprintln(w, "ℹ️  All migrations are up to date.")
	}

	return nil
}

func reportProblems(w io.Writer, problems []*executor.Problem, format string, cfg *config.Config) error {
	if len(problems) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Problems:")
	fmt.Fprintln(w)

	for _, p := range problems {
		fmt.Fprintf(w, "  ⚠️  %s\n", p.Description)
		if p.Error != nil {
			fmt.Fprintf(w, "     Error: %v\n", p.Error)
		}

		if p.State.HasChangedOnDisk() {
			fmt.Fprintln(w)
			if err := writeDiff(w, format, cfg, p); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}

func phaseTitle(kind scripts.Kind) string {
	switch kind {
	case scripts.PreMigration:
		return "Pre-migration scripts"
	case scripts.PostMigration:
		return "Post-migration scripts"
	default:
		return "Migrations"
	}
}
