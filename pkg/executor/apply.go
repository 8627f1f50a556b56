package executor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
)

// ApplySchema brings the database up to date with the migration scripts on
// disk.
//
// New migrations are applied in name order, each in its own transaction
// together with its ledger record. The walk stops at the first migration that
// fails or is inconsistent with the ledger, leaving earlier migrations
// applied. In that case the result lists every inconsistent migration, with a
// diff for those that changed on disk.
//
// With whatIf nothing is changed, including the reinitialize step, and the
// result reports what would happen. With syncOnly new migrations are recorded
// without running them.
//
// The returned error is reserved for failures reaching the ledger or the
// scripts. Inconsistencies and failing scripts are reported through
// Result.Success.
func (e *Executor) ApplySchema(ctx context.Context, whatIf, syncOnly, reinitialize bool) (*Result, error) {
	if reinitialize {
		if whatIf {
			e.logger.Info("Would clear all database objects")
		} else if err := e.ledger.ClearAll(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to clear database")
		}
	}

	if !whatIf {
		if err := e.ledger.EnsureTableExists(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to create ledger table")
		}
	}

	applied := []*migrator.Migration{}
	if !(whatIf && reinitialize) {
		var err error
		if applied, err = e.ledger.GetAppliedMigrations(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to load applied migrations")
		}
	}

	rec, err := e.reconcile(applied)
	if err != nil {
		return nil, err
	}

	res := &Result{Kind: scripts.Migration, Success: true, Reconciliation: rec}
	if rec.Len() == 0 {
		e.logger.Info("Database is consistent, no migrations to execute")
		res.NothingToDo = true
		return res, nil
	}

	for i := 0; i < rec.Len(); i++ {
		er := e.applyEntry(ctx, rec.Entry(i), rec.State(i), whatIf, syncOnly)
		res.Results = append(res.Results, er)

		if er.Status == StatusFailed || er.Status == StatusRejected {
			res.Success = false
			res.Problems = e.problems(rec, er)
			break
		}
	}

	return res, nil
}

func (e *Executor) applyEntry(ctx context.Context, ms *migrator.MigrationScript, state migrator.State, whatIf, syncOnly bool) *ExecutionResult {
	er := &ExecutionResult{Name: ms.Key, State: state}
	if ms.Script != nil {
		er.Collection = ms.Script.Collection
	}

	switch {
	case state.IsConsistent():
		er.Status = StatusSkipped
		e.logger.Debug("Migration already applied", "script", ms.Key)
	case !state.IsNewMigration():
		er.Status = StatusRejected
		er.Error = errors.New(ms.Describe(state))
		e.logger.Error("Migration is inconsistent with the ledger", "script", ms.Key, "state", state)
	case whatIf:
		er.Status = StatusPending
		e.logger.Info("Would apply migration", "script", ms.Key)
	case syncOnly:
		start := time.Now()
		e.logger.Warn("Recording migration without executing it", "script", ms.Key)

		if err := e.ledger.Insert(ctx, migrator.NewRecord(ms.Script, e.clock())); err != nil {
			er.Status = StatusFailed
			er.Error = errors.Wrapf(err, "failed to sync %s", ms.Key)
		} else {
			er.Status = StatusSynced
		}
		er.ExecutionTime = time.Since(start)
	default:
		start := time.Now()
		e.logger.Info("Applying migration", "script", ms.Key)

		if err := e.ledger.ApplyMigration(ctx, migrator.NewRecord(ms.Script, e.clock())); err != nil {
			er.Status = StatusFailed
			er.Error = errors.Wrapf(err, "failed to apply %s", ms.Key)
			e.logger.Error("Migration failed", "script", ms.Key, "err", err)
		} else {
			er.Status = StatusSuccess
		}
		er.ExecutionTime = time.Since(start)
	}

	return er
}

// problems describes every entry that is not consistent. The error of the
// entry that stopped the walk is attached to its problem.
func (e *Executor) problems(rec *migrator.Reconciliation, stopped *ExecutionResult) []*Problem {
	var out []*Problem
	for _, i := range rec.Inconsistent() {
		ms, state := rec.Entry(i), rec.State(i)
		p := &Problem{
			Name:        ms.Key,
			State:       state,
			Description: ms.Describe(state),
		}

		if state.HasChangedOnDisk() {
			p.Before = ms.Migration.Content
			p.After = ms.Script.Content
			p.Diff = e.Diff(p.Before, p.After)
		}

		if ms.Key == stopped.Name && stopped.Status == StatusFailed {
			p.Error = stopped.Error
		}

		out = append(out, p)
	}

	return out
}
