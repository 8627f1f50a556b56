package project

import (
	_ "embed"
	"io/fs"
	"os"
	"path/filepath"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/scripts"
)

var (
	//go:embed embed/dbmigrate.yaml
	defaultConfig []byte

	//go:embed embed/example.sql
	exampleScript []byte

	image = fstest.MapFS{
		"db":                            {Mode: fs.ModeDir | consts.ModeDir},
		"db/" + consts.MigrationsFolder: {Mode: fs.ModeDir | consts.ModeDir},
		"db/Post":                       {Mode: fs.ModeDir | consts.ModeDir},
		"db/Post/example.sql":           {Data: exampleScript},
		consts.DefaultConfigFile:        {Data: defaultConfig},
	}
)

type (
	// InitOptions contains options for project initialization
	InitOptions struct {
		// Dialect replaces the dialect in a newly created config file
		Dialect string

		// URL replaces the connection string in a newly created config file
		URL string
	}

	// Project is a directory holding a dbmigrate.yaml and the script folders
	// it points to.
	Project struct {
		root   string
		config *config.Config
	}
)

// New creates a Project rooted at path. The directory must exist before
// calling Initialize or Load.
func New(path string) *Project {
	return &Project{root: path}
}

// Initialize creates the config file and the script folders. It only
// creates what is missing and never overwrites existing files, so running it
// on an existing project is safe. The options only apply when the config file
// is created.
//
// Example:
//
//	p := project.New(".")
//	if err := p.Initialize(project.InitOptions{Dialect: "postgres"}); err != nil {
//		log.Fatal("Failed to initialize project:", err)
//	}
func (p *Project) Initialize(options InitOptions) error {
	if err := p.ensureDirectory(); err != nil {
		return err
	}

	cfgPath := filepath.Join(p.root, consts.DefaultConfigFile)
	_, statErr := os.Stat(cfgPath)
	newConfig := os.IsNotExist(statErr)

	err := fs.WalkDir(image, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == "." {
			return err
		}

		fullPath := filepath.Join(p.root, filepath.FromSlash(path))
		if _, err := os.Stat(fullPath); err == nil {
			return nil
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat %s", fullPath)
		}

		if d.IsDir() {
			return errors.Wrapf(os.MkdirAll(fullPath, consts.ModeDir), "failed to create directory %s", fullPath)
		}

		return errors.Wrapf(os.WriteFile(fullPath, image[path].Data, consts.ModeFile), "failed to write file %s", fullPath)
	})
	if err != nil {
		return err
	}

	if err := p.Load(); err != nil {
		return err
	}

	if newConfig && (options.Dialect != "" || options.URL != "") {
		if options.Dialect != "" {
			p.config.Dialect = options.Dialect
		}
		if options.URL != "" {
			p.config.URL = options.URL
		}

		if err := p.config.SaveFile(cfgPath); err != nil {
			return errors.Wrap(err, "failed to write updated config")
		}
	}

	// The configured dir may differ from the one in the image
	migrations := filepath.Join(p.ScriptsDir(), consts.MigrationsFolder)
	return errors.Wrapf(os.MkdirAll(migrations, consts.ModeDir), "failed to create directory %s", migrations)
}

// Load reads the project's config file.
func (p *Project) Load() error {
	cfg, err := config.LoadConfigFile(filepath.Join(p.root, consts.DefaultConfigFile))
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", consts.DefaultConfigFile)
	}

	p.config = cfg
	return nil
}

// Root returns the project directory.
func (p *Project) Root() string {
	return p.root
}

// Config returns the loaded configuration, or nil before Load or Initialize.
func (p *Project) Config() *config.Config {
	return p.config
}

// ScriptsDir returns the folder holding the script folders.
func (p *Project) ScriptsDir() string {
	dir := consts.DefaultDir
	if p.config != nil && p.config.Dir != "" {
		dir = p.config.Dir
	}

	if filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(p.root, dir)
}

// Scripts returns a repository over the project's script folders.
func (p *Project) Scripts() *scripts.Repository {
	var opts scripts.Options
	if p.config != nil {
		opts.PreMigration = p.config.PreMigration
	}

	return scripts.New(os.DirFS(p.ScriptsDir()), opts)
}

func (p *Project) ensureDirectory() error {
	dir, err := os.Stat(p.root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat dir: %s", p.root)
	}

	if !dir.IsDir() {
		return errors.Errorf("%s is not a directory", p.root)
	}

	return nil
}
