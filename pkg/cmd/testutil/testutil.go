package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/dbmigrate/pkg/config"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/project"
	"github.com/stretchr/testify/require"
)

// ProjectFixture is an initialized sqlite project in a temp directory, which
// is also the working directory for the rest of the test.
type ProjectFixture struct {
	Dir     string
	Config  *config.Config
	Project *project.Project
	t       *testing.T
}

// TestProject creates an isolated temp directory with an initialized project
// and changes into it.
func TestProject(t *testing.T) *ProjectFixture {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	proj := project.New(dir)
	require.NoError(t, proj.Initialize(project.InitOptions{
		Dialect: "sqlite",
		URL:     "file:" + filepath.Join(dir, "test.db"),
	}), "Failed to initialize test project")

	cfg, err := config.LoadConfigFile(consts.DefaultConfigFile)
	require.NoError(t, err, "Failed to load config file")
	cfg.Color = "never"

	return &ProjectFixture{
		Dir:     dir,
		Config:  cfg,
		Project: proj,
		t:       t,
	}
}

// WithScripts writes scripts relative to the scripts directory, e.g.
// "Migrations/001.sql".
func (p *ProjectFixture) WithScripts(files map[string]string) *ProjectFixture {
	p.t.Helper()

	for path, content := range files {
		full := filepath.Join(p.Dir, p.Config.Dir, filepath.FromSlash(path))
		require.NoError(p.t, os.MkdirAll(filepath.Dir(full), consts.ModeDir))
		require.NoError(p.t, os.WriteFile(full, []byte(content), consts.ModeFile), "Failed to write script: %s", path)
	}

	return p
}

// WithMigrations writes scripts into the Migrations folder.
func (p *ProjectFixture) WithMigrations(files map[string]string) *ProjectFixture {
	p.t.Helper()

	scripts := make(map[string]string, len(files))
	for name, content := range files {
		scripts[consts.MigrationsFolder+"/"+name] = content
	}

	return p.WithScripts(scripts)
}

// RemoveScript deletes a script relative to the scripts directory.
func (p *ProjectFixture) RemoveScript(path string) {
	p.t.Helper()
	require.NoError(p.t, os.Remove(filepath.Join(p.Dir, p.Config.Dir, filepath.FromSlash(path))))
}

// URL returns the project's connection string.
func (p *ProjectFixture) URL() string {
	return p.Config.URL
}
