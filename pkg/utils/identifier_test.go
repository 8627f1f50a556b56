package utils_test

import (
	"testing"

	"github.com/pseudomuto/dbmigrate/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		quote    string
		expected string
	}{
		{
			name:     "simple identifier",
			input:    "table",
			quote:    "`",
			expected: "`table`",
		},
		{
			name:     "qualified identifier with two parts",
			input:    "database.table",
			quote:    "`",
			expected: "`database`.`table`",
		},
		{
			name:     "double quotes",
			input:    "public.Migrations",
			quote:    `"`,
			expected: `"public"."Migrations"`,
		},
		{
			name:     "already quoted simple identifier",
			input:    "`table`",
			quote:    "`",
			expected: "`table`",
		},
		{
			name:     "already quoted identifier containing dots",
			input:    `"my.table"`,
			quote:    `"`,
			expected: `"my.table"`,
		},
		{
			name:     "partially quoted qualified identifier",
			input:    "`database`.table",
			quote:    "`",
			expected: "`database`.`table`",
		},
		{
			name:     "embedded quote is doubled",
			input:    `odd"name`,
			quote:    `"`,
			expected: `"odd""name"`,
		},
		{
			name:     "empty string",
			input:    "",
			quote:    "`",
			expected: "",
		},
		{
			name:     "identifier with spaces",
			input:    "my table",
			quote:    "`",
			expected: "`my table`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.QuoteIdentifier(tt.input, tt.quote))
		})
	}
}

func TestQualifiedName(t *testing.T) {
	require.Equal(t, "`analytics`.`Migrations`", utils.QualifiedName("analytics", "Migrations", "`"))
	require.Equal(t, `"Migrations"`, utils.QualifiedName("", "Migrations", `"`))
}

func TestIsQuoted(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"`table`", true},
		{"table", false},
		{"`db`.`table`", false},
		{"``", true},
		{"`", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.IsQuoted(tt.input, "`"))
		})
	}
}

func TestStripQuotes(t *testing.T) {
	require.Equal(t, "db.table", utils.StripQuotes("`db`.`table`", "`"))
	require.Equal(t, "table", utils.StripQuotes(`"table"`, `"`))
}
