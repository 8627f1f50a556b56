package scripts

import (
	"bytes"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
)

// ErrNoMigrationsFolder is returned by Validate when the project directory has
// no Migrations folder.
var ErrNoMigrationsFolder = errors.New("no " + consts.MigrationsFolder + " folder found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Kind identifies a group of script folders.
type Kind int

const (
	// Migration scripts are applied once and recorded in the ledger.
	Migration Kind = iota

	// PreMigration scripts run before the migrations on every invocation.
	PreMigration

	// PostMigration scripts run after the migrations on every invocation.
	PostMigration
)

func (k Kind) String() string {
	switch k {
	case Migration:
		return "Migration"
	case PreMigration:
		return "PreMigration"
	case PostMigration:
		return "PostMigration"
	default:
		return "Unknown"
	}
}

type (
	// Options configures a Repository.
	Options struct {
		// PreMigration lists the top-level folders whose scripts run before the
		// migrations. Names are matched case-insensitively.
		PreMigration []string
	}

	// Repository reads scripts from a file system rooted at the project's
	// script directory.
	Repository struct {
		fsys fs.FS
		pre  []string
	}
)

// New creates a Repository reading from fsys.
//
// Example:
//
//	repo := scripts.New(os.DirFS("db"), scripts.Options{PreMigration: []string{"PreMigration"}})
//	migrations, err := repo.GetScripts(scripts.Migration)
func New(fsys fs.FS, opts Options) *Repository {
	return &Repository{fsys: fsys, pre: opts.PreMigration}
}

// Validate checks that the directory contains a Migrations folder.
func (r *Repository) Validate() error {
	folders, err := r.folders()
	if err != nil {
		return err
	}

	for _, f := range folders {
		if r.kindOf(f) == Migration {
			return nil
		}
	}

	return ErrNoMigrationsFolder
}

// GetScripts returns every *.sql script of the given kind, sorted by folder
// and then by name. Folders are searched recursively.
func (r *Repository) GetScripts(kind Kind) ([]*migrator.Script, error) {
	folders, err := r.folders()
	if err != nil {
		return nil, err
	}

	scripts := []*migrator.Script{}
	for _, folder := range folders {
		if r.kindOf(folder) != kind {
			continue
		}

		found, err := r.load(folder)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, found...)
	}

	return scripts, nil
}

// HasScripts reports whether any script of the given kind exists.
func (r *Repository) HasScripts(kind Kind) (bool, error) {
	scripts, err := r.GetScripts(kind)
	if err != nil {
		return false, err
	}

	return len(scripts) > 0, nil
}

// folders lists the visible top-level directories in ordinal order.
func (r *Repository) folders() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read script directory")
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			folders = append(folders, e.Name())
		}
	}

	slices.Sort(folders)
	return folders, nil
}

func (r *Repository) kindOf(folder string) Kind {
	if strings.EqualFold(folder, consts.MigrationsFolder) {
		return Migration
	}

	for _, p := range r.pre {
		if strings.EqualFold(folder, p) {
			return PreMigration
		}
	}

	return PostMigration
}

func (r *Repository) load(folder string) ([]*migrator.Script, error) {
	var scripts []*migrator.Script

	err := fs.WalkDir(r.fsys, folder, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".sql") {
			return nil
		}

		data, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			return errors.Wrapf(err, "failed to read script: %s", p)
		}

		name := strings.TrimPrefix(p, folder+"/")
		content := string(bytes.TrimPrefix(data, utf8BOM))
		scripts = append(scripts, migrator.NewScript(folder, name, content))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load scripts from %s", folder)
	}

	slices.SortFunc(scripts, func(a, b *migrator.Script) int {
		return strings.Compare(a.Name, b.Name)
	})

	return scripts, nil
}
