package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindHalfMatch(t *testing.T) {
	tests := []struct {
		name  string
		text1 string
		text2 string
		want  []string
	}{
		{name: "no match", text1: "1234567890", text2: "abcdef"},
		{name: "too short", text1: "12345", text2: "23"},
		{name: "single match", text1: "1234567890", text2: "a345678z", want: []string{"12", "90", "a", "z", "345678"}},
		{name: "single match reversed", text1: "a345678z", text2: "1234567890", want: []string{"a", "z", "12", "90", "345678"}},
		{name: "single match suffix", text1: "abc56789z", text2: "1234567890", want: []string{"abc", "z", "1234", "0", "56789"}},
		{name: "single match prefix", text1: "a23456xyz", text2: "1234567890", want: []string{"a", "xyz", "1", "7890", "23456"}},
		{
			name:  "multiple matches",
			text1: "121231234123451234123121",
			text2: "a1234123451234z",
			want:  []string{"12123", "123121", "a", "z", "1234123451234"},
		},
		{
			name:  "multiple matches leading",
			text1: "x-=-=-=-=-=-=-=-=-=-=-=-=",
			text2: "xx-=-=-=-=-=-=-=",
			want:  []string{"", "-=-=-=-=-=", "x", "", "x-=-=-=-=-=-=-="},
		},
		{
			name:  "multiple matches trailing",
			text1: "-=-=-=-=-=-=-=-=-=-=-=-=y",
			text2: "-=-=-=-=-=-=-=yy",
			want:  []string{"-=-=-=-=-=", "", "", "y", "-=-=-=-=-=-=-=y"},
		},
		{
			name:  "non-optimal",
			text1: "qHilloHelloHew",
			text2: "xHelloHeHulloy",
			want:  []string{"qHillo", "w", "x", "Hulloy", "HelloHe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := findHalfMatch([]rune(tt.text1), []rune(tt.text2))
			if tt.want == nil {
				require.Nil(t, hm)
				return
			}

			require.NotNil(t, hm)
			require.Equal(t, tt.want, []string{
				string(hm.prefix1),
				string(hm.suffix1),
				string(hm.prefix2),
				string(hm.suffix2),
				string(hm.common),
			})
		})
	}
}

func TestLineTable(t *testing.T) {
	table := newLineTable()

	a := table.compress([]rune("alpha\nbeta\nalpha\n"))
	b := table.compress([]rune("beta\nalpha\nbeta\ngamma"))

	require.Equal(t, []rune{1, 2, 1}, a)
	require.Equal(t, []rune{2, 1, 2, 3}, b)
	require.Equal(t, "alpha\nbeta\nalpha\n", string(table.decompress(a)))
	require.Equal(t, "beta\nalpha\nbeta\ngamma", string(table.decompress(b)))
	require.Empty(t, table.compress(nil))
}

func TestSemanticScore(t *testing.T) {
	tests := []struct {
		one, two string
		want     int
	}{
		{"", "abc", 6},
		{"abc\n\n", "x", 5},
		{"abc", "\r\n\r\nx", 5},
		{"abc\n", "x", 4},
		{"abc.", " x", 3},
		{"abc", " x", 2},
		{"abc-", "x", 1},
		{"abc", "x", 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, semanticScore([]rune(tt.one), []rune(tt.two)), "%q|%q", tt.one, tt.two)
	}
}
