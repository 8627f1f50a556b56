// Package project manages dbmigrate project directories.
//
// A project is a directory containing a dbmigrate.yaml file and a folder of
// script folders (db by default):
//
//	project/
//	├── dbmigrate.yaml
//	└── db/
//	    ├── Migrations/      # applied once, recorded in the ledger
//	    │   ├── 0001_users.sql
//	    │   └── 0002_orders.sql
//	    └── Post/            # re-run after every successful migration
//	        └── grants.sql
//
// Folders listed under pre_migration in the config run before the
// migrations instead of after them.
//
// # Usage Example
//
//	p := project.New("/path/to/project")
//	if err := p.Initialize(project.InitOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
//	repo := p.Scripts()
//	if err := repo.Validate(); err != nil {
//		log.Fatal(err)
//	}
package project
