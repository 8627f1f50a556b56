package executor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
)

// ExecuteScripts runs every pre or post migration script of the given kind in
// order, each in its own transaction. These scripts are not recorded in the
// ledger and run on every invocation. Execution stops at the first failure.
func (e *Executor) ExecuteScripts(ctx context.Context, whatIf bool, kind scripts.Kind) (*Result, error) {
	if kind == scripts.Migration {
		return nil, errors.New("migration scripts must be applied with ApplySchema")
	}

	all, err := e.scripts.GetScripts(kind)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s scripts", kind)
	}

	res := &Result{Kind: kind, Success: true, NothingToDo: len(all) == 0}
	for _, s := range all {
		er := &ExecutionResult{Name: s.Name, Collection: s.Collection}
		res.Results = append(res.Results, er)

		if whatIf {
			er.Status = StatusPending
			e.logger.Info("Would run script", "collection", s.Collection, "script", s.Name)
			continue
		}

		start := time.Now()
		e.logger.Info("Running script", "collection", s.Collection, "script", s.Name)

		err := e.ledger.ExecuteInTransaction(ctx, s.Content)
		er.ExecutionTime = time.Since(start)

		if err != nil {
			er.Status = StatusFailed
			er.Error = errors.Wrapf(err, "failed to run %s/%s", s.Collection, s.Name)
			e.logger.Error("Script failed", "collection", s.Collection, "script", s.Name, "err", err)
			res.Success = false
			break
		}

		er.Status = StatusSuccess
	}

	return res, nil
}
