package diff

import (
	"context"
	"slices"
)

// lineModeThreshold is the length both texts must exceed before the line
// level pre-pass is used.
const lineModeThreshold = 100

// engine carries the per-call state of a diff computation. It is never
// shared between calls.
type engine struct {
	ctx   context.Context
	speed bool
}

// diff strips the common prefix and suffix, diffs the middle and merges the
// result.
func (e *engine) diff(text1, text2 []rune, checklines bool) []edit {
	if slices.Equal(text1, text2) {
		if len(text1) == 0 {
			return nil
		}

		return []edit{{op: Equal, text: text1}}
	}

	n := commonPrefix(text1, text2)
	prefix := text1[:n]
	text1, text2 = text1[n:], text2[n:]

	n = commonSuffix(text1, text2)
	suffix := text1[len(text1)-n:]
	text1, text2 = text1[:len(text1)-n], text2[:len(text2)-n]

	middle := e.compute(text1, text2, checklines)

	diffs := make([]edit, 0, len(middle)+2)
	if len(prefix) > 0 {
		diffs = append(diffs, edit{op: Equal, text: prefix})
	}

	diffs = append(diffs, middle...)
	if len(suffix) > 0 {
		diffs = append(diffs, edit{op: Equal, text: suffix})
	}

	return cleanupMerge(diffs)
}

// compute diffs two texts that share no prefix or suffix.
func (e *engine) compute(text1, text2 []rune, checklines bool) []edit {
	if len(text1) == 0 {
		return []edit{{op: Insert, text: text2}}
	}

	if len(text2) == 0 {
		return []edit{{op: Delete, text: text1}}
	}

	long, short, op := text1, text2, Delete
	if len(text1) <= len(text2) {
		long, short, op = text2, text1, Insert
	}

	if i := index(long, short, 0); i != -1 {
		return []edit{
			{op: op, text: long[:i]},
			{op: Equal, text: short},
			{op: op, text: long[i+len(short):]},
		}
	}

	// The single rune cannot be an equality after the containment check.
	if len(short) == 1 {
		return []edit{{op: Delete, text: text1}, {op: Insert, text: text2}}
	}

	// Unlimited time means the minimal diff is affordable.
	if e.speed {
		if hm := findHalfMatch(text1, text2); hm != nil {
			diffs := e.diff(hm.prefix1, hm.prefix2, checklines)
			diffs = append(diffs, edit{op: Equal, text: hm.common})
			return append(diffs, e.diff(hm.suffix1, hm.suffix2, checklines)...)
		}
	}

	if checklines && len(text1) > lineModeThreshold && len(text2) > lineModeThreshold {
		return e.lineDiff(text1, text2)
	}

	return e.bisect(text1, text2)
}

// lineDiff diffs whole lines first and then re-diffs each replaced block
// character by character. Faster on large texts, but possibly not minimal.
func (e *engine) lineDiff(text1, text2 []rune) []edit {
	table := newLineTable()
	lines := e.diff(table.compress(text1), table.compress(text2), false)

	diffs := make([]edit, len(lines), len(lines)+1)
	for i, d := range lines {
		diffs[i] = edit{op: d.op, text: table.decompress(d.text)}
	}

	// Drop freak matches such as blank lines.
	diffs = cleanupSemantic(diffs)

	// The trailing equality flushes the last replacement block.
	diffs = append(diffs, edit{op: Equal})

	var (
		countDelete, countInsert int
		textDelete, textInsert   []rune
	)

	for pointer := 0; pointer < len(diffs); pointer++ {
		switch diffs[pointer].op {
		case Insert:
			countInsert++
			textInsert = concat(textInsert, diffs[pointer].text)
		case Delete:
			countDelete++
			textDelete = concat(textDelete, diffs[pointer].text)
		case Equal:
			if countDelete >= 1 && countInsert >= 1 {
				sub := e.diff(textDelete, textInsert, false)
				count := countDelete + countInsert
				start := pointer - count
				diffs = splice(diffs, start, count, sub...)
				pointer = start + len(sub)
			}

			countDelete, countInsert = 0, 0
			textDelete, textInsert = nil, nil
		}
	}

	return diffs[:len(diffs)-1]
}

// bisect finds the middle snake of the edit graph, splits the problem there
// and recurses. See Myers 1986, "An O(ND) Difference Algorithm and Its
// Variations".
func (e *engine) bisect(text1, text2 []rune) []edit {
	len1, len2 := len(text1), len(text2)
	maxD := (len1 + len2 + 1) / 2
	vOffset := maxD
	vLength := 2 * maxD

	v1 := make([]int, vLength)
	v2 := make([]int, vLength)
	for i := range vLength {
		v1[i] = -1
		v2[i] = -1
	}

	v1[vOffset+1] = 0
	v2[vOffset+1] = 0

	delta := len1 - len2

	// With an odd total the forward path collides with the reverse one.
	front := delta%2 != 0

	// Keep the k loops from mapping space beyond the grid.
	var k1Start, k1End, k2Start, k2End int

	for d := range maxD {
		if e.ctx.Err() != nil {
			break
		}

		for k1 := -d + k1Start; k1 <= d-k1End; k1 += 2 {
			k1Offset := vOffset + k1

			var x1 int
			if k1 == -d || (k1 != d && v1[k1Offset-1] < v1[k1Offset+1]) {
				x1 = v1[k1Offset+1]
			} else {
				x1 = v1[k1Offset-1] + 1
			}

			y1 := x1 - k1
			for x1 < len1 && y1 < len2 && text1[x1] == text2[y1] {
				x1++
				y1++
			}

			v1[k1Offset] = x1

			switch {
			case x1 > len1:
				// Ran off the right of the graph.
				k1End += 2
			case y1 > len2:
				// Ran off the bottom of the graph.
				k1Start += 2
			case front:
				k2Offset := vOffset + delta - k1
				if k2Offset >= 0 && k2Offset < vLength && v2[k2Offset] != -1 {
					if x1 >= len1-v2[k2Offset] {
						return e.bisectSplit(text1, text2, x1, y1)
					}
				}
			}
		}

		for k2 := -d + k2Start; k2 <= d-k2End; k2 += 2 {
			k2Offset := vOffset + k2

			var x2 int
			if k2 == -d || (k2 != d && v2[k2Offset-1] < v2[k2Offset+1]) {
				x2 = v2[k2Offset+1]
			} else {
				x2 = v2[k2Offset-1] + 1
			}

			y2 := x2 - k2
			for x2 < len1 && y2 < len2 && text1[len1-x2-1] == text2[len2-y2-1] {
				x2++
				y2++
			}

			v2[k2Offset] = x2

			switch {
			case x2 > len1:
				// Ran off the left of the graph.
				k2End += 2
			case y2 > len2:
				// Ran off the top of the graph.
				k2Start += 2
			case !front:
				k1Offset := vOffset + delta - k2
				if k1Offset >= 0 && k1Offset < vLength && v1[k1Offset] != -1 {
					x1 := v1[k1Offset]
					y1 := vOffset + x1 - k1Offset
					if x1 >= len1-x2 {
						return e.bisectSplit(text1, text2, x1, y1)
					}
				}
			}
		}
	}

	// Out of time, or no commonality at all.
	return []edit{{op: Delete, text: text1}, {op: Insert, text: text2}}
}

func (e *engine) bisectSplit(text1, text2 []rune, x, y int) []edit {
	diffs := e.diff(text1[:x], text2[:y], false)
	return append(diffs, e.diff(text1[x:], text2[y:], false)...)
}
