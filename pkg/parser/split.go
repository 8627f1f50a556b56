package parser

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// splitLexer tokenizes just enough SQL to find statement boundaries. Rules
	// are tried in order, so terminated literals win over the Unterminated
	// catch-all.
	splitLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "DollarQuoted", Pattern: `(?s)\$\$.*?\$\$`},
		{Name: "String", Pattern: `'([^'\\]|\\.|'')*'`},
		{Name: "QuotedIdent", Pattern: `"([^"\\]|\\.|"")*"`},
		{Name: "BacktickIdent", Pattern: "`([^`\\\\]|\\\\.)*`"},
		{Name: "Unterminated", Pattern: "['\"`]|/\\*"},
		{Name: "Semicolon", Pattern: `;`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Text", Pattern: "[^;'\"`\\s\\-/$]+"},
		{Name: "Char", Pattern: `.`},
	})

	splitSymbols = splitLexer.Symbols()
)

// Split breaks a script into its individual statements.
//
// Statements are separated by semicolons outside of string literals, quoted
// identifiers, dollar quoted bodies and comments. Each statement is trimmed
// and has its terminating semicolon removed. Fragments containing only
// comments or whitespace are dropped.
//
// Example:
//
//	stmts, err := parser.Split(`
//	    -- users
//	    CREATE TABLE users (id INT, name TEXT DEFAULT 'a;b');
//	    INSERT INTO users VALUES (1, 'x');
//	`)
//	// stmts[0] == "-- users\n    CREATE TABLE users (id INT, name TEXT DEFAULT 'a;b')"
//	// stmts[1] == "INSERT INTO users VALUES (1, 'x')"
//
// Returns an error when a quoted literal or block comment is not terminated.
func Split(script string) ([]string, error) {
	lex, err := splitLexer.LexString("", script)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize script")
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to tokenize script")
	}

	var (
		stmts       []string
		current     strings.Builder
		significant bool
	)

	flush := func() {
		if significant {
			stmts = append(stmts, strings.TrimSpace(current.String()))
		}
		current.Reset()
		significant = false
	}

	for _, tok := range tokens {
		switch tok.Type {
		case lexer.EOF:
			continue
		case splitSymbols["Unterminated"]:
			return nil, errors.Errorf("%s: unterminated %q", tok.Pos, tok.Value)
		case splitSymbols["Semicolon"]:
			flush()
			continue
		case splitSymbols["Comment"], splitSymbols["MultilineComment"], splitSymbols["Whitespace"]:
		default:
			significant = true
		}

		current.WriteString(tok.Value)
	}
	flush()

	return stmts, nil
}

// SplitReader reads a script from r and splits it into statements.
func SplitReader(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}

	return Split(string(data))
}
