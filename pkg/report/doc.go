// Package report renders reconciliation results for humans.
//
// ContextWriter prints an edit script with a couple of lines of context
// around each change, Unified renders a conventional unified diff and
// StatusTable summarizes the state of every migration.
package report
