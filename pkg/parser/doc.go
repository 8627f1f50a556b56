// Package parser splits SQL scripts into individual statements.
//
// Some drivers only accept a single statement per Exec call. Split tokenizes a
// script with a participle lexer, just far enough to know where a semicolon is
// a statement terminator and where it is part of a string, a quoted
// identifier, a comment or a dollar-quoted body.
//
// Basic usage:
//
//	stmts, err := parser.Split(script)
//	if err != nil {
//		return err
//	}
//
//	for _, stmt := range stmts {
//		if _, err := db.ExecContext(ctx, stmt); err != nil {
//			return err
//		}
//	}
package parser
