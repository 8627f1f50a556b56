package diff

import (
	"context"
	"strings"
	"time"
)

// Operation is the kind of edit a Diff represents.
type Operation int8

const (
	// Equal text is shared by both inputs.
	Equal Operation = iota

	// Delete text only appears in the first input.
	Delete

	// Insert text only appears in the second input.
	Insert
)

func (o Operation) String() string {
	switch o {
	case Delete:
		return "Delete"
	case Insert:
		return "Insert"
	default:
		return "Equal"
	}
}

type (
	// Diff is one segment of an edit script.
	Diff struct {
		Operation Operation
		Text      string
	}

	// Options control how a diff is computed.
	Options struct {
		// Timeout bounds the computation. A positive value also enables the
		// half match heuristic, which may produce a non-minimal result.
		Timeout time.Duration

		// CharMode disables the line level pre-pass used for long texts.
		CharMode bool
	}
)

// String renders the diff for debugging, showing newlines as pilcrows.
func (d Diff) String() string {
	return "Diff(" + d.Operation.String() + ",\"" + strings.ReplaceAll(d.Text, "\n", "¶") + "\")"
}

// Compute finds the differences between before and after without a
// deadline.
func Compute(before, after string) []Diff {
	return ComputeContext(context.Background(), before, after, Options{})
}

// ComputeWithTimeout finds the differences between before and after,
// accepting a less optimal result once timeout has elapsed.
func ComputeWithTimeout(before, after string, timeout time.Duration) []Diff {
	return ComputeContext(context.Background(), before, after, Options{Timeout: timeout})
}

// ComputeContext finds the differences between before and after.
//
// Cancellation of ctx is honoured once per bisection step. A context with a
// deadline, or a positive Timeout, enables the speed heuristics.
func ComputeContext(ctx context.Context, before, after string, opts Options) []Diff {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	_, speed := ctx.Deadline()
	e := &engine{ctx: ctx, speed: speed}

	return fromEdits(e.diff([]rune(before), []rune(after), !opts.CharMode))
}

// Before rebuilds the first input from an edit script.
func Before(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Operation != Insert {
			sb.WriteString(d.Text)
		}
	}

	return sb.String()
}

// After rebuilds the second input from an edit script.
func After(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Operation != Delete {
			sb.WriteString(d.Text)
		}
	}

	return sb.String()
}

// HasChanges reports whether the edit script contains any edits.
func HasChanges(diffs []Diff) bool {
	for _, d := range diffs {
		if d.Operation != Equal {
			return true
		}
	}

	return false
}

// CleanupMerge merges adjacent edits of the same kind, factors out text
// shared by neighbouring deletions and insertions and slides single edits
// sideways to remove redundant equalities.
func CleanupMerge(diffs []Diff) []Diff {
	return fromEdits(cleanupMerge(toEdits(diffs)))
}

// CleanupSemantic removes equalities too small to be meaningful next to
// larger edits and realigns the remaining edits to natural boundaries.
func CleanupSemantic(diffs []Diff) []Diff {
	return fromEdits(cleanupSemantic(toEdits(diffs)))
}

// CleanupSemanticLossless shifts single edits surrounded by equalities so
// that they start and end on word, line or sentence boundaries.
func CleanupSemanticLossless(diffs []Diff) []Diff {
	return fromEdits(cleanupSemanticLossless(toEdits(diffs)))
}

// CommonPrefix returns the number of runes shared by the start of a and b.
func CommonPrefix(a, b string) int {
	return commonPrefix([]rune(a), []rune(b))
}

// CommonSuffix returns the number of runes shared by the end of a and b.
func CommonSuffix(a, b string) int {
	return commonSuffix([]rune(a), []rune(b))
}

// CommonOverlap returns the number of runes at the end of a that match the
// start of b.
func CommonOverlap(a, b string) int {
	return commonOverlap([]rune(a), []rune(b))
}

// edit is the working representation of a Diff. Texts are rune slices so
// that multi-byte characters are never split.
type edit struct {
	op   Operation
	text []rune
}

func toEdits(diffs []Diff) []edit {
	edits := make([]edit, len(diffs))
	for i, d := range diffs {
		edits[i] = edit{op: d.Operation, text: []rune(d.Text)}
	}

	return edits
}

func fromEdits(edits []edit) []Diff {
	if len(edits) == 0 {
		return nil
	}

	diffs := make([]Diff, len(edits))
	for i, e := range edits {
		diffs[i] = Diff{Operation: e.op, Text: string(e.text)}
	}

	return diffs
}
