package ledger

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)

func init() {
	Register(Dialect{
		Name:          "postgres",
		Driver:        "pgx",
		Quote:         `"`,
		Placeholder:   Dollar,
		DefaultSchema: "public",
		DefaultTable:  "Migrations",
		Transactional: true,
		Queries: Queries{
			TableExists: `SELECT COUNT(*) FROM information_schema.tables
WHERE table_name = @TableName AND table_schema = @Schema`,
			CreateTable: `CREATE TABLE IF NOT EXISTS {TableName} (
    ScriptName VARCHAR(255) NOT NULL PRIMARY KEY,
    MD5 VARCHAR(32) NOT NULL,
    ExecutedOn TIMESTAMPTZ NOT NULL,
    Content TEXT NOT NULL
)`,
			SelectMigrations: selectMigrations,
			InsertMigration:  insertMigration,
			DropAll: `SELECT 'DROP ' || CASE WHEN table_type = 'VIEW' THEN 'VIEW' ELSE 'TABLE' END
    || ' IF EXISTS ' || quote_ident(table_schema) || '.' || quote_ident(table_name) || ' CASCADE'
FROM information_schema.tables
WHERE table_schema = @Schema
ORDER BY table_type DESC, table_name`,
		},
	})
}
