package executor

import (
	"time"

	"github.com/pseudomuto/dbmigrate/pkg/diff"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
)

const (
	// StatusSuccess indicates the script was executed successfully
	StatusSuccess ExecutionStatus = "success"

	// StatusFailed indicates the script failed to execute
	StatusFailed ExecutionStatus = "failed"

	// StatusSkipped indicates the migration was already applied
	StatusSkipped ExecutionStatus = "skipped"

	// StatusPending indicates the script would run outside of what-if mode
	StatusPending ExecutionStatus = "pending"

	// StatusSynced indicates the migration was recorded without running it
	StatusSynced ExecutionStatus = "synced"

	// StatusRejected indicates the migration is inconsistent with the ledger
	StatusRejected ExecutionStatus = "rejected"
)

type (
	// ExecutionStatus represents the outcome for a single script.
	ExecutionStatus string

	// ExecutionResult contains the result of handling a single script.
	ExecutionResult struct {
		// Name is the script name relative to its collection
		Name string

		// Collection is the folder the script was loaded from. Empty for
		// migrations that are missing on disk.
		Collection string

		// State is the reconciled state. Only set for migrations.
		State migrator.State

		// Status indicates what happened to the script
		Status ExecutionStatus

		// Error contains any error that occurred during execution
		Error error

		// ExecutionTime records how long the script took to execute
		ExecutionTime time.Duration
	}

	// Problem describes one migration that is not consistent with the ledger.
	Problem struct {
		Name        string
		State       migrator.State
		Description string

		// Before and After are the ledger and disk content of a changed
		// migration, and Diff the edits between them.
		Before string
		After  string
		Diff   []diff.Diff

		// Error is set when applying the migration failed
		Error error
	}

	// Result is the outcome of one phase of a run.
	Result struct {
		// Kind is the kind of scripts the phase handled
		Kind scripts.Kind

		// Success is false when the phase stopped on an inconsistency or an
		// execution failure
		Success bool

		// NothingToDo is set when there were neither migrations nor scripts
		NothingToDo bool

		// Results has one entry per script handled, in order
		Results []*ExecutionResult

		// Problems lists every inconsistent migration after a failed run
		Problems []*Problem

		// Reconciliation is the joined view the migration phase acted on
		Reconciliation *migrator.Reconciliation
	}
)

// Count returns the number of results with the given status.
func (r *Result) Count(status ExecutionStatus) int {
	n := 0
	for _, er := range r.Results {
		if er.Status == status {
			n++
		}
	}

	return n
}

// Failed returns the first result that failed or was rejected, if any.
func (r *Result) Failed() *ExecutionResult {
	for _, er := range r.Results {
		if er.Status == StatusFailed || er.Status == StatusRejected {
			return er
		}
	}

	return nil
}
