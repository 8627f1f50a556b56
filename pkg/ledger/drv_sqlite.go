package ledger

import (
	_ "modernc.org/sqlite"
)

func init() {
	Register(Dialect{
		Name:          "sqlite",
		Driver:        "sqlite",
		Quote:         `"`,
		Placeholder:   QuestionMark,
		DefaultTable:  "Migrations",
		Transactional: true,
		MaxOpenConns:  1,
		Queries: Queries{
			TableExists: "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = @TableName",
			CreateTable: `CREATE TABLE IF NOT EXISTS {TableName} (
    ScriptName TEXT NOT NULL PRIMARY KEY,
    MD5 TEXT NOT NULL,
    ExecutedOn DATETIME NOT NULL,
    Content TEXT NOT NULL
)`,
			SelectMigrations: selectMigrations,
			InsertMigration:  insertMigration,
			DropAll: `SELECT 'DROP ' || upper(type) || ' IF EXISTS "' || replace(name, '"', '""') || '"'
FROM sqlite_master
WHERE type IN ('view', 'table') AND name NOT LIKE 'sqlite_%'
ORDER BY type DESC, name`,
		},
	})
}
