// Package utils provides small helpers shared across dbmigrate.
//
// # Identifier Utilities (identifier.go)
//
// Ledger table names are built from a schema and a table name and quoted with
// the dialect's identifier quote:
//
//	utils.QualifiedName("public", "Migrations", `"`)
//	// Result: "public"."Migrations"
//
//	utils.QuoteIdentifier("analytics.Migrations", "`")
//	// Result: `analytics`.`Migrations`
//
// Quoting is idempotent: an identifier that is already quoted is returned
// unchanged.
package utils
