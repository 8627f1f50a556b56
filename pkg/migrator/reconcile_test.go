package migrator_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

func script(name, content string) *migrator.Script {
	return migrator.NewScript("Migrations", name, content)
}

func applied(name, content string) *migrator.Migration {
	return migrator.NewRecord(script(name, content), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func states(r *migrator.Reconciliation) map[string]migrator.State {
	out := make(map[string]migrator.State, r.Len())
	for i, e := range r.Entries() {
		out[e.Key] = r.State(i)
	}

	return out
}

func TestReconcile_NilInput(t *testing.T) {
	_, err := migrator.Reconcile(nil, []*migrator.Script{})
	require.ErrorIs(t, err, migrator.ErrNilInput)
	require.Contains(t, err.Error(), "ledger")

	_, err = migrator.Reconcile([]*migrator.Migration{}, nil)
	require.ErrorIs(t, err, migrator.ErrNilInput)
	require.Contains(t, err.Error(), "scripts")

	r, err := migrator.Reconcile([]*migrator.Migration{}, []*migrator.Script{})
	require.NoError(t, err)
	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Inconsistent())
}

func TestReconcile_InvalidInput(t *testing.T) {
	t.Run("duplicate migration", func(t *testing.T) {
		_, err := migrator.Reconcile(
			[]*migrator.Migration{applied("001.sql", "a"), applied("001.sql", "b")},
			[]*migrator.Script{},
		)
		require.ErrorIs(t, err, migrator.ErrDuplicateKey)
	})

	t.Run("duplicate script", func(t *testing.T) {
		_, err := migrator.Reconcile(
			[]*migrator.Migration{},
			[]*migrator.Script{script("001.sql", "a"), script("001.sql", "a")},
		)
		require.ErrorIs(t, err, migrator.ErrDuplicateKey)
	})

	t.Run("nil element", func(t *testing.T) {
		_, err := migrator.Reconcile([]*migrator.Migration{nil}, []*migrator.Script{})
		require.ErrorIs(t, err, migrator.ErrInvalidEntry)
	})
}

func TestNewMigrationScript(t *testing.T) {
	_, err := migrator.NewMigrationScript("001.sql", nil, nil)
	require.ErrorIs(t, err, migrator.ErrInvalidEntry)

	_, err = migrator.NewMigrationScript("001.sql", applied("002.sql", "x"), nil)
	require.ErrorIs(t, err, migrator.ErrInvalidEntry)

	_, err = migrator.NewMigrationScript("001.sql", nil, script("002.sql", "x"))
	require.ErrorIs(t, err, migrator.ErrInvalidEntry)

	ms, err := migrator.NewMigrationScript("001.sql", applied("001.sql", "x"), script("001.sql", "x"))
	require.NoError(t, err)
	require.Equal(t, "001.sql", ms.Key)
	require.Equal(t, "001.sql was changed on disk", ms.Describe(migrator.HasChangedOnDisk))
}

func TestReconcile_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		ledger   []*migrator.Migration
		scripts  []*migrator.Script
		expected map[string]migrator.State
		order    []string
	}{
		{
			name:     "first run",
			ledger:   []*migrator.Migration{},
			scripts:  []*migrator.Script{script("001.sql", "CREATE TABLE a (id int);")},
			expected: map[string]migrator.State{"001.sql": migrator.NewMigration},
			order:    []string{"001.sql"},
		},
		{
			name:   "all applied",
			ledger: []*migrator.Migration{applied("001.sql", "a"), applied("002.sql", "b")},
			scripts: []*migrator.Script{
				script("001.sql", "a"),
				script("002.sql", "b"),
			},
			expected: map[string]migrator.State{
				"001.sql": migrator.Consistent,
				"002.sql": migrator.Consistent,
			},
			order: []string{"001.sql", "002.sql"},
		},
		{
			name:   "changed on disk",
			ledger: []*migrator.Migration{applied("001.sql", "CREATE TABLE a (id int);")},
			scripts: []*migrator.Script{
				script("001.sql", "CREATE TABLE a (id bigint);"),
			},
			expected: map[string]migrator.State{"001.sql": migrator.HasChangedOnDisk},
			order:    []string{"001.sql"},
		},
		{
			name:   "script added out of order",
			ledger: []*migrator.Migration{applied("001.sql", "a"), applied("003.sql", "c")},
			scripts: []*migrator.Script{
				script("001.sql", "a"),
				script("002.sql", "b"),
				script("003.sql", "c"),
				script("004.sql", "d"),
			},
			expected: map[string]migrator.State{
				"001.sql": migrator.Consistent,
				"002.sql": migrator.UnexpectedExtraScript,
				"003.sql": migrator.Consistent,
				"004.sql": migrator.NewMigration,
			},
			order: []string{"001.sql", "002.sql", "003.sql", "004.sql"},
		},
		{
			name:     "missing on disk",
			ledger:   []*migrator.Migration{applied("002.sql", "b")},
			scripts:  []*migrator.Script{script("001.sql", "a")},
			expected: map[string]migrator.State{"001.sql": migrator.UnexpectedExtraScript, "002.sql": migrator.MissingOnDisk},
			order:    []string{"001.sql", "002.sql"},
		},
		{
			name:   "run of new scripts followed by a missing one",
			ledger: []*migrator.Migration{applied("004.sql", "d")},
			scripts: []*migrator.Script{
				script("001.sql", "a"),
				script("002.sql", "b"),
				script("003.sql", "c"),
			},
			expected: map[string]migrator.State{
				"001.sql": migrator.UnexpectedExtraScript,
				"002.sql": migrator.UnexpectedExtraScript,
				"003.sql": migrator.UnexpectedExtraScript,
				"004.sql": migrator.MissingOnDisk,
			},
			order: []string{"001.sql", "002.sql", "003.sql", "004.sql"},
		},
		{
			name:   "trailing run of new scripts",
			ledger: []*migrator.Migration{applied("001.sql", "a")},
			scripts: []*migrator.Script{
				script("003.sql", "c"),
				script("001.sql", "a"),
				script("002.sql", "b"),
			},
			expected: map[string]migrator.State{
				"001.sql": migrator.Consistent,
				"002.sql": migrator.NewMigration,
				"003.sql": migrator.NewMigration,
			},
			order: []string{"001.sql", "002.sql", "003.sql"},
		},
		{
			name:   "ordinal ordering",
			ledger: []*migrator.Migration{},
			scripts: []*migrator.Script{
				script("b.sql", "b"),
				script("B.sql", "B"),
				script("a/z.sql", "z"),
			},
			expected: map[string]migrator.State{
				"B.sql":   migrator.NewMigration,
				"a/z.sql": migrator.NewMigration,
				"b.sql":   migrator.NewMigration,
			},
			order: []string{"B.sql", "a/z.sql", "b.sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := migrator.Reconcile(tt.ledger, tt.scripts)
			require.NoError(t, err)
			require.Equal(t, tt.expected, states(r))

			keys := make([]string, 0, r.Len())
			for _, e := range r.Entries() {
				keys = append(keys, e.Key)
			}
			require.Equal(t, tt.order, keys)
		})
	}
}

func TestReconciliation_Accessors(t *testing.T) {
	r, err := migrator.Reconcile(
		[]*migrator.Migration{applied("001.sql", "a"), applied("003.sql", "c")},
		[]*migrator.Script{script("001.sql", "a"), script("002.sql", "b"), script("003.sql", "changed")},
	)
	require.NoError(t, err)

	require.Equal(t, "002.sql", r.Next(0).Key)
	require.Equal(t, "003.sql", r.Next(1).Key)
	require.Nil(t, r.Next(2))

	idx, ok := r.Lookup("003.sql")
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.Equal(t, "003.sql", r.Entry(idx).Key)

	_, ok = r.Lookup("999.sql")
	require.False(t, ok)

	require.Equal(t, []int{1, 2}, r.Inconsistent())
	require.Equal(t, map[migrator.State]int{
		migrator.Consistent:            1,
		migrator.UnexpectedExtraScript: 1,
		migrator.HasChangedOnDisk:      1,
	}, r.Counts())
}

// The reference classification walks next recursively, exactly as the rules
// are stated. The optimized pass must agree with it on arbitrary input.
func referenceState(entries []*migrator.MigrationScript, i int) migrator.State {
	e := entries[i]
	isNew := func(j int) bool {
		for ; j < len(entries); j++ {
			if entries[j].Migration != nil || entries[j].Script == nil {
				return false
			}
		}
		return true
	}

	switch {
	case e.Migration != nil && e.Script != nil && e.Migration.Checksum == e.Script.Checksum:
		return migrator.Consistent
	case e.Script != nil && e.Migration == nil && isNew(i):
		return migrator.NewMigration
	case e.Migration != nil && e.Script != nil:
		return migrator.HasChangedOnDisk
	case e.Script == nil:
		return migrator.MissingOnDisk
	default:
		return migrator.UnexpectedExtraScript
	}
}

func TestReconcile_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := range 200 {
		t.Run(fmt.Sprintf("iteration_%d", iter), func(t *testing.T) {
			ledger := []*migrator.Migration{}
			scripts := []*migrator.Script{}
			names := map[string]bool{}

			for i := range rng.Intn(12) {
				name := fmt.Sprintf("%03d.sql", i)
				switch rng.Intn(4) {
				case 0:
					ledger = append(ledger, applied(name, name))
				case 1:
					scripts = append(scripts, script(name, name))
				case 2:
					ledger = append(ledger, applied(name, name))
					scripts = append(scripts, script(name, name))
				default:
					ledger = append(ledger, applied(name, name))
					scripts = append(scripts, script(name, name+" changed"))
				}
				names[name] = true
			}

			r, err := migrator.Reconcile(ledger, scripts)
			require.NoError(t, err)
			require.Equal(t, len(names), r.Len())

			entries := r.Entries()
			for i, e := range entries {
				require.True(t, names[e.Key])
				require.True(t, e.Migration != nil || e.Script != nil)
				require.Equal(t, referenceState(entries, i), r.State(i), e.Key)

				if i > 0 {
					require.Less(t, entries[i-1].Key, e.Key)
				}

				if r.State(i) == migrator.NewMigration {
					for j := i + 1; j < len(entries); j++ {
						require.Nil(t, entries[j].Migration)
					}
				}
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	require.Equal(t, "D41D8CD98F00B204E9800998ECF8427E", migrator.Checksum(""))
	require.Equal(t, "900150983CD24FB0D6963F7D28E17F72", migrator.Checksum("abc"))

	s := migrator.NewScript("Migrations", "001.sql", "abc")
	require.Equal(t, migrator.Checksum("abc"), s.Checksum)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	m := migrator.NewRecord(s, at)
	require.Equal(t, "001.sql", m.Name)
	require.Equal(t, s.Checksum, m.Checksum)
	require.Equal(t, time.UTC, m.AppliedAt.Location())
	require.True(t, at.Equal(m.AppliedAt))
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    migrator.State
		label    string
		describe string
	}{
		{migrator.Consistent, "Consistent", "x.sql is consistent"},
		{migrator.NewMigration, "NewMigration", "x.sql is valid new script on disk"},
		{migrator.HasChangedOnDisk, "HasChangedOnDisk", "x.sql was changed on disk"},
		{migrator.MissingOnDisk, "MissingOnDisk", "x.sql expected but not found on disk"},
		{migrator.UnexpectedExtraScript, "UnexpectedExtraScript", "x.sql is a new script on disk, but comes alphabetically in wrong order"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			require.Equal(t, tt.label, tt.state.String())
			require.Equal(t, tt.describe, tt.state.Describe("x.sql"))
		})
	}

	require.Equal(t, "State(42)", migrator.State(42).String())
	require.True(t, migrator.Consistent.IsConsistent())
	require.True(t, migrator.NewMigration.IsNewMigration())
	require.True(t, migrator.HasChangedOnDisk.HasChangedOnDisk())
	require.True(t, migrator.MissingOnDisk.IsMissingOnDisk())
	require.True(t, migrator.UnexpectedExtraScript.IsUnexpectedExtraScript())
	require.False(t, migrator.NewMigration.IsConsistent())
	require.True(t, errors.Is(errors.Wrap(migrator.ErrNilInput, "x"), migrator.ErrNilInput))
}
