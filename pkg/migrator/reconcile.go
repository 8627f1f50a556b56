package migrator

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNilInput is returned when the ledger or the script set is nil.
	// An empty set is valid.
	ErrNilInput = errors.New("input must not be nil")

	// ErrInvalidEntry is returned when a MigrationScript would have neither
	// side, or two sides that disagree about the name.
	ErrInvalidEntry = errors.New("invalid migration script")

	// ErrDuplicateKey is returned when one side contains the same name twice.
	ErrDuplicateKey = errors.New("duplicate name")
)

type (
	// MigrationScript is one reconciled entry: the ledger record and the
	// on-disk script sharing a name. At least one side is always present.
	MigrationScript struct {
		Key       string
		Migration *Migration
		Script    *Script
	}

	// Reconciliation is the ordered, immutable result of Reconcile.
	//
	// The successor of entry i is entry i+1. States are computed once when
	// the reconciliation is built.
	Reconciliation struct {
		entries []*MigrationScript
		states  []State
	}
)

// NewMigrationScript pairs a ledger record with a script.
func NewMigrationScript(key string, m *Migration, s *Script) (*MigrationScript, error) {
	if m == nil && s == nil {
		return nil, errors.Wrapf(ErrInvalidEntry, "%s: neither migration nor script present", key)
	}

	if m != nil && m.Name != key {
		return nil, errors.Wrapf(ErrInvalidEntry, "migration %s does not match key %s", m.Name, key)
	}

	if s != nil && s.Name != key {
		return nil, errors.Wrapf(ErrInvalidEntry, "script %s does not match key %s", s.Name, key)
	}

	return &MigrationScript{Key: key, Migration: m, Script: s}, nil
}

// Describe renders state for this entry. The state itself comes from
// Reconciliation.State, since new scripts depend on their successors.
func (ms *MigrationScript) Describe(state State) string {
	return state.Describe(ms.Key)
}

func (ms *MigrationScript) scriptOnly() bool {
	return ms.Script != nil && ms.Migration == nil
}

// Reconcile performs a full outer join of the applied migrations and the
// on-disk scripts keyed by name, sorted ordinally, and classifies every entry.
//
// Either input may be empty but neither may be nil.
func Reconcile(ledger []*Migration, scripts []*Script) (*Reconciliation, error) {
	if ledger == nil {
		return nil, errors.Wrap(ErrNilInput, "ledger")
	}

	if scripts == nil {
		return nil, errors.Wrap(ErrNilInput, "scripts")
	}

	migrations := make(map[string]*Migration, len(ledger))
	for _, m := range ledger {
		if m == nil {
			return nil, errors.Wrap(ErrInvalidEntry, "nil migration in ledger")
		}

		if _, ok := migrations[m.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "migration %s", m.Name)
		}

		migrations[m.Name] = m
	}

	onDisk := make(map[string]*Script, len(scripts))
	for _, s := range scripts {
		if s == nil {
			return nil, errors.Wrap(ErrInvalidEntry, "nil script")
		}

		if _, ok := onDisk[s.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "script %s", s.Name)
		}

		onDisk[s.Name] = s
	}

	keys := make([]string, 0, len(migrations)+len(onDisk))
	for k := range migrations {
		keys = append(keys, k)
	}

	for k := range onDisk {
		if _, ok := migrations[k]; !ok {
			keys = append(keys, k)
		}
	}

	slices.SortFunc(keys, strings.Compare)

	entries := make([]*MigrationScript, len(keys))
	for i, k := range keys {
		entry, err := NewMigrationScript(k, migrations[k], onDisk[k])
		if err != nil {
			return nil, err
		}

		entries[i] = entry
	}

	return &Reconciliation{entries: entries, states: classify(entries)}, nil
}

// classify computes every entry's state without recursion.
//
// Right to left, trailing[i] records whether entry i starts a run of
// script-only entries reaching the end of the sequence. Left to right, the
// state is picked in priority order using local presence and trailing.
func classify(entries []*MigrationScript) []State {
	n := len(entries)
	trailing := make([]bool, n+1)
	trailing[n] = true

	for i := n - 1; i >= 0; i-- {
		trailing[i] = entries[i].scriptOnly() && trailing[i+1]
	}

	states := make([]State, n)
	for i, e := range entries {
		switch {
		case e.Migration != nil && e.Script != nil && e.Migration.Checksum == e.Script.Checksum:
			states[i] = Consistent
		case trailing[i]:
			states[i] = NewMigration
		case e.Migration != nil && e.Script != nil:
			states[i] = HasChangedOnDisk
		case e.Script == nil:
			states[i] = MissingOnDisk
		default:
			states[i] = UnexpectedExtraScript
		}
	}

	return states
}

// Entries returns the reconciled entries in ascending key order.
func (r *Reconciliation) Entries() []*MigrationScript {
	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Reconciliation) Len() int {
	return len(r.entries)
}

// Entry returns the entry at index i.
func (r *Reconciliation) Entry(i int) *MigrationScript {
	return r.entries[i]
}

// Next returns the successor of entry i, or nil for the last entry.
func (r *Reconciliation) Next(i int) *MigrationScript {
	if i+1 >= len(r.entries) {
		return nil
	}

	return r.entries[i+1]
}

// State returns the classification of entry i.
func (r *Reconciliation) State(i int) State {
	return r.states[i]
}

// Lookup returns the index of the entry with the given key.
func (r *Reconciliation) Lookup(key string) (int, bool) {
	return slices.BinarySearchFunc(r.entries, key, func(e *MigrationScript, k string) int {
		return strings.Compare(e.Key, k)
	})
}

// Inconsistent returns the indexes of every entry that is not Consistent, in
// order.
func (r *Reconciliation) Inconsistent() []int {
	var idx []int
	for i, s := range r.states {
		if s != Consistent {
			idx = append(idx, i)
		}
	}

	return idx
}

// Counts tallies the entries per state.
func (r *Reconciliation) Counts() map[State]int {
	counts := make(map[State]int, len(States))
	for _, s := range r.states {
		counts[s]++
	}

	return counts
}
