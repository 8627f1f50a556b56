package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	params := map[string]any{
		"TableName":  "Migrations",
		"ScriptName": "001.sql",
		"ExecutedOn": now,
		"V2":         42,
	}

	tests := []struct {
		name  string
		query string
		ph    Placeholder
		want  string
		args  []any
	}{
		{
			name:  "no parameters",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "question mark",
			query: "SELECT * FROM t WHERE a = @ScriptName AND b = @ExecutedOn",
			ph:    QuestionMark,
			want:  "SELECT * FROM t WHERE a = ? AND b = ?",
			args:  []any{"001.sql", now},
		},
		{
			name:  "dollar numbers in order of appearance",
			query: "INSERT INTO t VALUES (@ExecutedOn, @ScriptName)",
			ph:    Dollar,
			want:  "INSERT INTO t VALUES ($1, $2)",
			args:  []any{now, "001.sql"},
		},
		{
			name:  "repeated parameter binds twice",
			query: "@ScriptName = @ScriptName",
			ph:    Dollar,
			want:  "$1 = $2",
			args:  []any{"001.sql", "001.sql"},
		},
		{
			name:  "names may contain digits",
			query: "SELECT @V2",
			want:  "SELECT ?",
			args:  []any{42},
		},
		{
			name:  "quoted literals are untouched",
			query: "SELECT '@ScriptName', @TableName",
			want:  "SELECT '@ScriptName', ?",
			args:  []any{"Migrations"},
		},
		{
			name:  "system variables are untouched",
			query: "SELECT @@version",
			want:  "SELECT @@version",
		},
		{
			name:  "lone at sign",
			query: "SELECT 'a' @ 1",
			want:  "SELECT 'a' @ 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := bind(tt.query, tt.ph, params)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.args, args)
		})
	}
}

func TestBind_MissingParameter(t *testing.T) {
	_, _, err := bind("SELECT @Nope", QuestionMark, map[string]any{})
	require.EqualError(t, err, "no value for parameter @Nope")
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  time.Time
	}{
		{"time", want.In(time.FixedZone("EST", -5*3600)), want},
		{"rfc3339", "2024-05-06T07:08:09Z", want},
		{"sqlite format", "2024-05-06 07:08:09+00:00", want},
		{"bytes", []byte("2024-05-06 07:08:09"), want},
		{"go string form", "2024-05-06 07:08:09 +0000 UTC", want},
		{"go string form with zone", want.In(time.FixedZone("EST", -5*3600)).String(), want},
		{"unix", want.Unix(), want},
		{"nil", nil, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := parseTime("yesterday")
	require.Error(t, err)

	_, err = parseTime(1.5)
	require.Error(t, err)
}
