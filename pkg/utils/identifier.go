package utils

import "strings"

// QuoteIdentifier wraps every part of a dotted identifier in the quote
// character q, doubling any q inside a part.
//
// Examples (q = `"`):
//   - "table" -> "\"table\""
//   - "schema.table" -> "\"schema\".\"table\""
//   - "\"table\"" -> "\"table\"" (already quoted, not double-quoted)
//   - "" -> ""
//
// MySQL and ClickHouse use a backtick, PostgreSQL and SQLite a double quote.
func QuoteIdentifier(name, q string) string {
	if name == "" {
		return ""
	}

	// A single quoted identifier may itself contain dots
	if IsQuoted(name, q) {
		return name
	}

	parts := strings.Split(name, ".")
	for i, part := range parts {
		if IsQuoted(part, q) {
			continue
		}
		parts[i] = q + strings.ReplaceAll(part, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

// QualifiedName formats schema.name with each part quoted. When schema is
// empty only the name is quoted.
//
// Examples (q = "`"):
//   - ("analytics", "Migrations") -> "`analytics`.`Migrations`"
//   - ("", "Migrations") -> "`Migrations`"
func QualifiedName(schema, name, q string) string {
	if schema != "" {
		return QuoteIdentifier(schema, q) + "." + QuoteIdentifier(name, q)
	}
	return QuoteIdentifier(name, q)
}

// IsQuoted checks if s is a single identifier wrapped in q.
//
// Examples (q = "`"):
//   - "`table`" -> true
//   - "table" -> false
//   - "`db`.`table`" -> false (qualified name, not a single identifier)
func IsQuoted(s, q string) bool {
	if q == "" || len(s) < 2*len(q) || !strings.HasPrefix(s, q) || !strings.HasSuffix(s, q) {
		return false
	}

	inner := s[len(q) : len(s)-len(q)]
	return !strings.Contains(strings.ReplaceAll(inner, q+q, ""), q)
}

// StripQuotes removes the quote character q from an identifier.
func StripQuotes(s, q string) string {
	return strings.ReplaceAll(s, q, "")
}
