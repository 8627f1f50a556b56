// Package cmd provides CLI commands for the dbmigrate tool.
//
// This package implements the command-line interface for dbmigrate. Each
// command is a function returning a *cli.Command, following the
// urfave/cli/v3 pattern, and is provided to the fx application through the
// "commands" value group.
//
// # Available Commands
//
//   - init: Create dbmigrate.yaml and the script folders
//   - migrate: Run pre-migration scripts, apply new migrations, run
//     post-migration scripts
//   - status: Show the reconciled state of every migration
//   - diff: Show how an applied migration changed on disk
//   - verify: Apply every script to a throwaway database
//   - config show, config save: Inspect the configuration or write the
//     dialect's ledger queries into it
//
// # Global Options
//
//   - --dir, -d: Project directory (defaults to current directory)
//   - --config, -c: Config file relative to the project directory
//
// Commands talking to a database accept --url (or DBMIGRATE_URL), and may
// override the configured --dialect and --schema.
//
// # Example Usage
//
//	dbmigrate init --dialect postgres
//	dbmigrate migrate --url postgres://localhost/app --whatif
//	dbmigrate migrate --url postgres://localhost/app
//	dbmigrate status --url postgres://localhost/app --verbose
//	dbmigrate diff 0002_users.sql --format unified
package cmd
