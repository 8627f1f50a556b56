package cmd

import (
	"testing"

	"github.com/pseudomuto/dbmigrate/pkg/cmd/testutil"
	"github.com/stretchr/testify/require"
)

func TestVerify_SQLite(t *testing.T) {
	fixture := testutil.TestProject(t).WithMigrations(map[string]string{
		"001.sql": createUsers,
		"002.sql": createOrders,
	})

	out, err := testutil.RunCommand(t, verify(fixture.Config))
	require.NoError(t, err)
	require.Contains(t, out, "✅ 001.sql completed")
	require.Contains(t, out, "Verified 2 migrations against a fresh sqlite database.")

	// the project database is untouched
	out, err = testutil.RunCommand(t, status(fixture.Config))
	require.NoError(t, err)
	require.NotContains(t, out, "Consistent")
	require.Contains(t, out, "NewMigration")
}

func TestVerify_Failure(t *testing.T) {
	fixture := testutil.TestProject(t).WithMigrations(map[string]string{
		"001.sql": "CREATE TABLE (",
	})

	out, err := testutil.RunCommand(t, verify(fixture.Config))
	require.EqualError(t, err, "migration failed")
	require.Contains(t, out, "❌ 001.sql failed")
}

func TestVerify_UnsupportedDialect(t *testing.T) {
	fixture := testutil.TestProject(t)
	fixture.Config.Dialect = "mysql"

	_, err := testutil.RunCommand(t, verify(fixture.Config))
	require.EqualError(t, err, "verify does not support the mysql dialect")
}

func TestVerify_Container(t *testing.T) {
	testutil.SkipIfNoDocker(t)

	fixture := testutil.TestProject(t).WithMigrations(map[string]string{
		"001.sql": "CREATE TABLE users (id BIGINT PRIMARY KEY);\n",
	})
	fixture.RemoveScript("Post/example.sql")
	fixture.Config.Dialect = "postgres"

	out, err := testutil.RunCommand(t, verify(fixture.Config))
	require.NoError(t, err)
	require.Contains(t, out, "Verified 1 migrations against a fresh postgres database.")
}
