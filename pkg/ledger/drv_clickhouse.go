package ledger

import (
	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouse has no multi-statement transactions, so scripts are applied one
// statement at a time and a failure part way through leaves earlier
// statements in place. The ledger uses a ReplacingMergeTree keyed on the
// script name and reads it with FINAL.
func init() {
	Register(Dialect{
		Name:            "clickhouse",
		Driver:          "clickhouse",
		Quote:           "`",
		Placeholder:     QuestionMark,
		DefaultTable:    "Migrations",
		SplitStatements: true,
		Queries: Queries{
			TableExists: `SELECT count() FROM system.tables
WHERE name = @TableName AND database = if(empty(@Schema), currentDatabase(), @Schema)`,
			CreateTable: `CREATE TABLE IF NOT EXISTS {TableName} (
    ScriptName String,
    MD5 String,
    ExecutedOn DateTime64(3, 'UTC'),
    Content String
) ENGINE = ReplacingMergeTree
ORDER BY ScriptName`,
			SelectMigrations: "SELECT ScriptName, MD5, ExecutedOn, Content FROM {TableName} FINAL ORDER BY ScriptName ASC",
			InsertMigration:  insertMigration,
			DropAll: `SELECT concat('DROP TABLE IF EXISTS ', backQuote(database), '.', backQuote(name))
FROM system.tables
WHERE database = if(empty(@Schema), currentDatabase(), @Schema)
ORDER BY engine LIKE '%View' DESC, name`,
		},
	})
}
