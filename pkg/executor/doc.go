// Package executor applies migration scripts to a database.
//
// The executor reconciles the migrations recorded in the ledger with the
// migration scripts on disk and walks the result in name order. Already
// applied migrations are skipped and new migrations are applied, each in a
// transaction together with its ledger record. Anything else, a changed or
// missing script or a new script that sorts before an applied one, stops the
// walk.
//
// # Phases
//
// A full run has three phases:
//
//   - Pre-migration scripts run in their own transactions before migrating
//   - Migrations are applied through ApplySchema
//   - Post-migration scripts run after every migration succeeded
//
// Pre and post migration scripts are not recorded and run every time.
//
// # Usage Example
//
//	exec := executor.New(executor.Config{
//		Ledger:      l,
//		Scripts:     scripts.New(os.DirFS("db"), scripts.Options{}),
//		DiffTimeout: time.Second,
//	})
//
//	results, err := exec.Run(ctx, executor.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, res := range results {
//		for _, p := range res.Problems {
//			fmt.Println(p.Description)
//		}
//	}
//
// # Error Handling
//
// Returned errors mean the ledger or the scripts could not be read. A
// failing script or an inconsistent ledger is reported through
// Result.Success, Result.Results and Result.Problems instead, so that callers
// can render every problem before exiting.
package executor
