package parser_test

import (
	"strings"
	"testing"

	. "github.com/pseudomuto/dbmigrate/pkg/parser"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected []string
	}{
		{
			name:     "empty script",
			script:   "",
			expected: nil,
		},
		{
			name:     "single statement without terminator",
			script:   "CREATE TABLE t (id INT)",
			expected: []string{"CREATE TABLE t (id INT)"},
		},
		{
			name:     "multiple statements",
			script:   "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);\n",
			expected: []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name:     "semicolon inside string",
			script:   "INSERT INTO t VALUES ('a;b');INSERT INTO t VALUES ('it''s;');",
			expected: []string{"INSERT INTO t VALUES ('a;b')", "INSERT INTO t VALUES ('it''s;')"},
		},
		{
			name:     "semicolon inside quoted identifiers",
			script:   "SELECT \"a;b\" FROM `c;d`;",
			expected: []string{"SELECT \"a;b\" FROM `c;d`"},
		},
		{
			name:     "semicolon inside comments",
			script:   "-- one; two\nSELECT 1; /* three; four */ SELECT 2;",
			expected: []string{"-- one; two\nSELECT 1", "/* three; four */ SELECT 2"},
		},
		{
			name:     "comment only fragments are dropped",
			script:   "SELECT 1;\n-- trailing comment\n;;\n/* done */",
			expected: []string{"SELECT 1"},
		},
		{
			name: "dollar quoted body",
			script: `CREATE FUNCTION f() RETURNS INT AS $$ BEGIN RETURN 1; END; $$ LANGUAGE plpgsql;
SELECT f();`,
			expected: []string{
				"CREATE FUNCTION f() RETURNS INT AS $$ BEGIN RETURN 1; END; $$ LANGUAGE plpgsql",
				"SELECT f()",
			},
		},
		{
			name:     "operators and arithmetic",
			script:   "SELECT 4-2, 6/3, a--comment\nFROM t;",
			expected: []string{"SELECT 4-2, 6/3, a--comment\nFROM t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := Split(tt.script)
			require.NoError(t, err)
			require.Equal(t, tt.expected, stmts)
		})
	}
}

func TestSplit_Errors(t *testing.T) {
	for _, script := range []string{
		"SELECT 'abc",
		"SELECT \"abc",
		"SELECT `abc",
		"SELECT 1 /* never closed",
	} {
		t.Run(script, func(t *testing.T) {
			_, err := Split(script)
			require.Error(t, err)
			require.Contains(t, err.Error(), "unterminated")
		})
	}
}

func TestSplitReader(t *testing.T) {
	stmts, err := SplitReader(strings.NewReader("SELECT 1; SELECT 2"))
	require.NoError(t, err)
	require.Equal(t, []string{"SELECT 1", "SELECT 2"}, stmts)
}
