package report

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbmigrate/pkg/consts"
	"github.com/pseudomuto/dbmigrate/pkg/diff"
)

// ContextWriter prints an edit script, showing only the unchanged lines
// immediately surrounding each edit.
//
// Deleted text is wrapped in parentheses and printed in red, inserted text is
// printed in green. Unchanged lines further than Context lines away from an
// edit are omitted.
type ContextWriter struct {
	out     io.Writer
	context int
	del     *color.Color
	ins     *color.Color

	pending []string
	flush   int
	err     error
}

// NewContextWriter creates a ContextWriter. A context of zero or less uses the
// default of two lines.
func NewContextWriter(out io.Writer, context int, colorize bool) *ContextWriter {
	if context <= 0 {
		context = consts.DefaultDiffContext
	}

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colorize {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	return &ContextWriter{out: out, context: context, del: del, ins: ins}
}

// Write renders diffs. It may be called repeatedly; context carries over
// between calls.
func (w *ContextWriter) Write(diffs []diff.Diff) error {
	for _, d := range diffs {
		switch d.Operation {
		case diff.Equal:
			w.equal(d.Text)
		case diff.Delete:
			w.edit(w.del, "("+d.Text+")")
		case diff.Insert:
			w.edit(w.ins, d.Text)
		}

		if w.err != nil {
			return errors.Wrap(w.err, "failed to write diff")
		}
	}

	return nil
}

func (w *ContextWriter) equal(text string) {
	for _, line := range lines(text) {
		if w.flush > 0 {
			w.print(line)
			w.flush--
			continue
		}

		w.pending = append(w.pending, line)
	}

	if n := len(w.pending); n > w.context {
		w.pending = w.pending[n-w.context:]
	}
}

func (w *ContextWriter) edit(c *color.Color, text string) {
	for _, line := range w.pending {
		w.print(line)
	}
	w.pending = w.pending[:0]

	if w.err == nil {
		_, w.err = c.Fprint(w.out, text)
	}
	w.flush = w.context
}

func (w *ContextWriter) print(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.out, s)
	}
}

// lines splits text after every newline, keeping the terminators. A trailing
// fragment without a newline is its own line.
func lines(text string) []string {
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}
