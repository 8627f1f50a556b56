// Package ledger records which migration scripts have been applied to a
// database.
//
// The ledger is a single table, Migrations by default, holding the name,
// checksum, execution time and full content of every applied script:
//
//	ScriptName | MD5 | ExecutedOn | Content
//
// Storing the content lets dbmigrate show exactly what changed when a script
// that was already applied is edited on disk.
//
// Each supported database is described by a Dialect holding its driver, quoting
// and placeholder conventions and the query templates used to manage the
// table. Templates may reference {TableName} and {Schema}, which are replaced
// by the quoted identifiers, and named parameters such as @TableName or
// @ScriptName, which are bound to driver placeholders.
//
// Basic usage:
//
//	l, err := ledger.Open(ctx, ledger.Options{Dialect: "postgres", DSN: dsn})
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	if err := l.EnsureTableExists(ctx); err != nil {
//		return err
//	}
//
//	applied, err := l.GetAppliedMigrations(ctx)
package ledger
