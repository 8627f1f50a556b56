// Package scripts loads SQL scripts from a project directory.
//
// A project directory contains top-level folders of scripts. The folder named
// Migrations (matched case-insensitively) holds the versioned migrations that
// are applied once and recorded in the ledger. Any folders listed as
// pre-migration folders run before the migrations, and every other folder
// runs after them. Pre and post migration scripts run on every invocation and
// are never recorded.
//
//	db/
//	├── PreMigration/
//	│   └── 00_disable_triggers.sql
//	├── Migrations/
//	│   ├── 001_create_users.sql
//	│   └── 002/add_index.sql
//	└── Views/
//	    └── users_view.sql
//
// Script names are the slash separated path relative to their folder, so the
// second migration above is named "002/add_index.sql".
package scripts
