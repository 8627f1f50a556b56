package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/diff"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
)

type (
	// Ledger defines the database operations required by the executor.
	// *ledger.Ledger implements it.
	Ledger interface {
		EnsureTableExists(context.Context) error
		ClearAll(context.Context) error
		GetAppliedMigrations(context.Context) ([]*migrator.Migration, error)
		Insert(context.Context, *migrator.Migration) error
		ExecuteInTransaction(context.Context, string) error
		ApplyMigration(context.Context, *migrator.Migration) error
	}

	// Scripts provides the scripts found on disk. *scripts.Repository
	// implements it.
	Scripts interface {
		GetScripts(scripts.Kind) ([]*migrator.Script, error)
		HasScripts(scripts.Kind) (bool, error)
	}

	// Executor reconciles the ledger with the scripts on disk and applies new
	// migrations in order.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{
	//		Ledger:  l,
	//		Scripts: scripts.New(os.DirFS("db"), scripts.Options{}),
	//	})
	//
	//	res, err := exec.ApplySchema(ctx, false, false, false)
	//	if err != nil {
	//		log.Fatal(err)
	//	}
	//
	//	for _, r := range res.Results {
	//		fmt.Printf("%s: %s\n", r.Name, r.Status)
	//	}
	Executor struct {
		ledger      Ledger
		scripts     Scripts
		logger      *slog.Logger
		diffTimeout time.Duration
		clock       func() time.Time
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// Ledger records applied migrations
		Ledger Ledger

		// Scripts loads scripts from disk
		Scripts Scripts

		// Logger defaults to slog.Default()
		Logger *slog.Logger

		// DiffTimeout bounds the diff computed for changed scripts. Zero means
		// no limit.
		DiffTimeout time.Duration

		// Clock stamps new ledger records. Defaults to time.Now.
		Clock func() time.Time
	}

	// Options selects how Run behaves.
	Options struct {
		// WhatIf reports what would happen without changing the database
		WhatIf bool

		// SyncOnly records new migrations in the ledger without running them
		SyncOnly bool

		// Reinitialize drops every database object before migrating
		Reinitialize bool
	}
)

// New creates a new executor with the provided configuration.
func New(config Config) *Executor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Executor{
		ledger:      config.Ledger,
		scripts:     config.Scripts,
		logger:      logger,
		diffTimeout: config.DiffTimeout,
		clock:       clock,
	}
}

// Run executes the pre-migration scripts, the migrations and the
// post-migration scripts in that order. It stops after the first phase that
// does not succeed and returns the results of every phase that ran.
func (e *Executor) Run(ctx context.Context, opts Options) ([]*Result, error) {
	var results []*Result

	phases := []func() (*Result, error){
		func() (*Result, error) { return e.runPhase(ctx, opts.WhatIf, scripts.PreMigration) },
		func() (*Result, error) { return e.ApplySchema(ctx, opts.WhatIf, opts.SyncOnly, opts.Reinitialize) },
		func() (*Result, error) { return e.runPhase(ctx, opts.WhatIf, scripts.PostMigration) },
	}

	for _, phase := range phases {
		res, err := phase()
		if err != nil {
			return results, err
		}

		if res == nil {
			continue
		}

		results = append(results, res)
		if !res.Success {
			break
		}
	}

	return results, nil
}

func (e *Executor) runPhase(ctx context.Context, whatIf bool, kind scripts.Kind) (*Result, error) {
	ok, err := e.HasScripts(kind)
	if err != nil || !ok {
		return nil, err
	}

	return e.ExecuteScripts(ctx, whatIf, kind)
}

// HasScripts reports whether any scripts of the given kind exist on disk.
func (e *Executor) HasScripts(kind scripts.Kind) (bool, error) {
	ok, err := e.scripts.HasScripts(kind)
	return ok, errors.Wrapf(err, "failed to load %s scripts", kind)
}

// Reconcile joins the applied migrations with the migration scripts on disk
// without changing anything.
func (e *Executor) Reconcile(ctx context.Context) (*migrator.Reconciliation, error) {
	applied, err := e.ledger.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load applied migrations")
	}

	return e.reconcile(applied)
}

func (e *Executor) reconcile(applied []*migrator.Migration) (*migrator.Reconciliation, error) {
	onDisk, err := e.scripts.GetScripts(scripts.Migration)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load migration scripts")
	}

	return migrator.Reconcile(applied, onDisk)
}

// Diff computes the changes between the applied content of a migration and
// its current content on disk.
func (e *Executor) Diff(before, after string) []diff.Diff {
	if e.diffTimeout > 0 {
		return diff.ComputeWithTimeout(before, after, e.diffTimeout)
	}

	return diff.Compute(before, after)
}
