// Package migrator reconciles the migrations recorded in a database ledger
// with the migration scripts found on disk.
//
// Every name present on either side yields exactly one MigrationScript. The
// entries are sorted ordinally by name and each one is classified into
// exactly one State:
//
//   - Consistent: applied, and the script on disk still has the same checksum
//   - NewMigration: only on disk, and nothing after it has been applied
//   - HasChangedOnDisk: applied, but the script content changed since
//   - MissingOnDisk: applied, but the script no longer exists
//   - UnexpectedExtraScript: only on disk, but sorts before an applied entry
//
// The ordering rule is what makes the ledger trustworthy: a script may only
// be applied when every script after it is also new. A script that sorts
// before something already applied was added out of order and must be
// renamed by the operator.
//
// Example usage:
//
//	rec, err := migrator.Reconcile(applied, scripts)
//	if err != nil {
//		return err
//	}
//
//	for i, entry := range rec.Entries() {
//		fmt.Println(entry.Describe(rec.State(i)))
//	}
package migrator
