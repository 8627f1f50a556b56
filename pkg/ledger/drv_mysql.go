package ledger

import (
	_ "github.com/go-sql-driver/mysql"
)

func init() {
	Register(Dialect{
		Name:            "mysql",
		Driver:          "mysql",
		Quote:           "`",
		Placeholder:     QuestionMark,
		DefaultTable:    "Migrations",
		Transactional:   true,
		SplitStatements: true,
		Queries: Queries{
			TableExists: `SELECT COUNT(*) FROM information_schema.tables
WHERE table_name = @TableName AND table_schema = COALESCE(NULLIF(@Schema, ''), DATABASE())`,
			CreateTable: `CREATE TABLE IF NOT EXISTS {TableName} (
    ScriptName VARCHAR(255) NOT NULL PRIMARY KEY,
    MD5 VARCHAR(32) NOT NULL,
    ExecutedOn DATETIME(6) NOT NULL,
    Content LONGTEXT NOT NULL
)`,
			SelectMigrations: selectMigrations,
			InsertMigration:  insertMigration,
			DropAll: "SELECT CONCAT('DROP ', IF(table_type = 'VIEW', 'VIEW', 'TABLE'), ' IF EXISTS `', " +
				"REPLACE(table_name, '`', '``'), '`')\n" +
				"FROM information_schema.tables\n" +
				"WHERE table_schema = COALESCE(NULLIF(@Schema, ''), DATABASE())\n" +
				"ORDER BY table_type DESC, table_name",
		},
	})
}
