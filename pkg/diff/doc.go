// Package diff computes character level differences between two texts.
//
// The algorithm is Myers' O(ND) bisection with the heuristics popularised by
// diff-match-patch: common prefix and suffix stripping, containment and half
// match shortcuts, a line level pre-pass for long texts and a set of cleanup
// passes that make the result easier for humans to read.
//
// Every result is a valid edit script: concatenating the Equal and Delete
// texts yields the first input, and concatenating the Equal and Insert texts
// yields the second. When a deadline expires the result degrades to a less
// minimal, but still valid, script.
//
// Example usage:
//
//	diffs := diff.Compute("SELECT 1;\n", "SELECT 2;\n")
//	for _, d := range diffs {
//		fmt.Println(d)
//	}
//
//	// Bound the work spent on large scripts.
//	diffs = diff.ComputeWithTimeout(before, after, time.Second)
package diff
