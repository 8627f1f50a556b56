package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pseudomuto/dbmigrate/pkg/migrator"
)

// StatusTable renders a reconciliation as one row per script.
type StatusTable struct {
	out    io.Writer
	writer table.Writer
}

// NewStatusTable creates a table writing to out. Colour also switches the
// border to rounded unicode box characters.
func NewStatusTable(out io.Writer, colorize bool) *StatusTable {
	colors := table.ColorOptions{}
	box := table.StyleBoxDefault
	if colorize {
		colors.Header = text.Colors{text.Italic}
		colors.Border = text.Colors{text.FgHiBlack}
		colors.Separator = text.Colors{text.FgHiBlack}
		box = table.StyleBoxRounded
	}

	t := table.NewWriter()
	t.SetStyle(table.Style{
		Box:     box,
		Color:   colors,
		Format:  table.FormatOptions{},
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
	})
	t.AppendHeader(table.Row{"Script", "Collection", "State", "Applied At"})

	configs := make([]table.ColumnConfig, 4)
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:           i + 1,
			AlignHeader:      text.AlignCenter,
			Align:            text.AlignLeft,
			WidthMax:         60,
			WidthMaxEnforcer: text.WrapSoft,
		}
	}
	t.SetColumnConfigs(configs)

	return &StatusTable{out: out, writer: t}
}

// Append adds every entry of the reconciliation to the table.
func (s *StatusTable) Append(r *migrator.Reconciliation) {
	for i := range r.Len() {
		entry := r.Entry(i)

		collection := "-"
		if entry.Script != nil {
			collection = entry.Script.Collection
		}

		appliedAt := "-"
		if entry.Migration != nil {
			appliedAt = entry.Migration.AppliedAt.Format(time.DateTime)
		}

		s.writer.AppendRow(table.Row{entry.Key, collection, r.State(i).String(), appliedAt})
	}
}

// Render writes the table followed by a newline.
func (s *StatusTable) Render() error {
	_, err := fmt.Fprintln(s.out, s.writer.Render())
	return err
}

// Summary writes the number of entries in each state, skipping empty states.
func Summary(out io.Writer, r *migrator.Reconciliation) error {
	counts := r.Counts()
	for _, state := range migrator.States {
		if counts[state] == 0 {
			continue
		}

		if _, err := fmt.Fprintf(out, "  %-22s %d\n", state.String()+":", counts[state]); err != nil {
			return err
		}
	}

	return nil
}
