package report

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified renders a unified diff between two versions of a script. The
// result is empty when the contents are identical.
func Unified(fromName, toName, before, after string) string {
	if before == after {
		return ""
	}

	edits := myers.ComputeEdits(span.URIFromPath(fromName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, before, edits))
}
