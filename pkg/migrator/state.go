package migrator

import "fmt"

// State is the classification of a reconciled entry.
type State int

const (
	// Consistent means the script was applied and has not changed since.
	Consistent State = iota

	// NewMigration means the script has not been applied and may be.
	NewMigration

	// HasChangedOnDisk means the applied script's content has changed.
	HasChangedOnDisk

	// MissingOnDisk means an applied script no longer exists on disk.
	MissingOnDisk

	// UnexpectedExtraScript means the script has not been applied, but sorts
	// before a script that has.
	UnexpectedExtraScript
)

// States lists every state in priority order.
var States = []State{Consistent, NewMigration, HasChangedOnDisk, MissingOnDisk, UnexpectedExtraScript}

func (s State) String() string {
	switch s {
	case Consistent:
		return "Consistent"
	case NewMigration:
		return "NewMigration"
	case HasChangedOnDisk:
		return "HasChangedOnDisk"
	case MissingOnDisk:
		return "MissingOnDisk"
	case UnexpectedExtraScript:
		return "UnexpectedExtraScript"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Describe renders a human readable explanation of the state for the named
// script.
func (s State) Describe(name string) string {
	switch s {
	case Consistent:
		return name + " is consistent"
	case NewMigration:
		return name + " is valid new script on disk"
	case HasChangedOnDisk:
		return name + " was changed on disk"
	case MissingOnDisk:
		return name + " expected but not found on disk"
	case UnexpectedExtraScript:
		return name + " is a new script on disk, but comes alphabetically in wrong order"
	default:
		return name + " is in an unknown state"
	}
}

// IsConsistent reports whether the script was applied and is unchanged.
func (s State) IsConsistent() bool { return s == Consistent }

// IsNewMigration reports whether the script may be applied.
func (s State) IsNewMigration() bool { return s == NewMigration }

// HasChangedOnDisk reports whether the applied script has been edited.
func (s State) HasChangedOnDisk() bool { return s == HasChangedOnDisk }

// IsMissingOnDisk reports whether the applied script was removed.
func (s State) IsMissingOnDisk() bool { return s == MissingOnDisk }

// IsUnexpectedExtraScript reports whether the unapplied script sorts before
// an applied one.
func (s State) IsUnexpectedExtraScript() bool { return s == UnexpectedExtraScript }
