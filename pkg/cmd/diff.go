package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/executor"
	"github.com/urfave/cli/v3"
)

// diffCmd creates a CLI command showing how an applied migration changed on
// disk since it was applied.
func diffCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Show the changes to an applied migration",
		ArgsUsage: "<script>",
		Before:    requireConfig(cfg),
		Flags: []cli.Flag{
			urlFlag(),
			dialectFlag(),
			schemaFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return errors.New("a script name is required")
			}

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

			i, ok := rec.Lookup(name)
			if !ok {
				return errors.Errorf("unknown script %s", name)
			}

			entry, state := rec.Entry(i), rec.State(i)
			switch {
			case entry.Migration == nil:
				return errors.Errorf("%s has not been applied", name)
			case entry.Script == nil:
				return errors.Errorf("%s has been applied but not found on disk", name)
			}

			w := output(cmd)
			if state.IsConsistent() {
				fmt.Fprintln(w, entry.Describe(state))
				return nil
			}

			return writeDiff(w, diffFormat(cmd, cfg), cfg, &executor.Problem{
				Name:        name,
				State:       state,
				Description: entry.Describe(state),
				Before:      entry.Migration.Content,
				After:       entry.Script.Content,
				Diff:        exec.Diff(entry.Migration.Content, entry.Script.Content),
			})
		},
	}
}
