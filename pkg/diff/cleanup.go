package diff

import (
	"slices"
	"unicode"
)

// splice replaces count entries starting at start with items and returns
// the new slice. The input is never modified.
func splice(diffs []edit, start, count int, items ...edit) []edit {
	out := make([]edit, 0, len(diffs)-count+len(items))
	out = append(out, diffs[:start]...)
	out = append(out, items...)
	return append(out, diffs[start+count:]...)
}

func cleanupMerge(diffs []edit) []edit {
	merged := make([]edit, 0, len(diffs)+1)
	for _, d := range diffs {
		if len(d.text) > 0 {
			merged = append(merged, d)
		}
	}

	// The trailing equality flushes the last run of edits.
	diffs = append(merged, edit{op: Equal})

	var (
		countDelete, countInsert int
		textDelete, textInsert   []rune
	)

	pointer := 0
	for pointer < len(diffs) {
		switch diffs[pointer].op {
		case Insert:
			countInsert++
			textInsert = concat(textInsert, diffs[pointer].text)
			pointer++
		case Delete:
			countDelete++
			textDelete = concat(textDelete, diffs[pointer].text)
			pointer++
		case Equal:
			switch {
			case countDelete+countInsert > 1:
				if countDelete != 0 && countInsert != 0 {
					if n := commonPrefix(textInsert, textDelete); n != 0 {
						idx := pointer - countDelete - countInsert - 1
						if idx >= 0 && diffs[idx].op == Equal {
							diffs[idx].text = concat(diffs[idx].text, textInsert[:n])
						} else {
							diffs = splice(diffs, 0, 0, edit{op: Equal, text: textInsert[:n]})
							pointer++
						}

						textInsert, textDelete = textInsert[n:], textDelete[n:]
					}

					if n := commonSuffix(textInsert, textDelete); n != 0 {
						diffs[pointer].text = concat(textInsert[len(textInsert)-n:], diffs[pointer].text)
						textInsert = textInsert[:len(textInsert)-n]
						textDelete = textDelete[:len(textDelete)-n]
					}
				}

				var replacement []edit
				if len(textDelete) > 0 {
					replacement = append(replacement, edit{op: Delete, text: textDelete})
				}

				if len(textInsert) > 0 {
					replacement = append(replacement, edit{op: Insert, text: textInsert})
				}

				start := pointer - countDelete - countInsert
				diffs = splice(diffs, start, countDelete+countInsert, replacement...)
				pointer = start + len(replacement) + 1
			case pointer != 0 && diffs[pointer-1].op == Equal:
				diffs[pointer-1].text = concat(diffs[pointer-1].text, diffs[pointer].text)
				diffs = splice(diffs, pointer, 1)
			default:
				pointer++
			}

			countDelete, countInsert = 0, 0
			textDelete, textInsert = nil, nil
		}
	}

	if len(diffs[len(diffs)-1].text) == 0 {
		diffs = diffs[:len(diffs)-1]
	}

	// Slide single edits surrounded by equalities sideways when that removes
	// an equality, e.g. A<ins>BA</ins>C becomes <ins>AB</ins>AC.
	changes := false
	for pointer = 1; pointer < len(diffs)-1; pointer++ {
		if diffs[pointer-1].op != Equal || diffs[pointer+1].op != Equal {
			continue
		}

		prev, cur, next := diffs[pointer-1].text, diffs[pointer].text, diffs[pointer+1].text
		switch {
		case hasSuffix(cur, prev):
			diffs[pointer].text = concat(prev, cur[:len(cur)-len(prev)])
			diffs[pointer+1].text = concat(prev, next)
			diffs = splice(diffs, pointer-1, 1)
			changes = true
		case hasPrefix(cur, next):
			diffs[pointer-1].text = concat(prev, next)
			diffs[pointer].text = concat(cur[len(next):], next)
			diffs = splice(diffs, pointer+1, 1)
			changes = true
		}
	}

	if changes {
		return cleanupMerge(diffs)
	}

	return diffs
}

func cleanupSemantic(diffs []edit) []edit {
	diffs = slices.Clone(diffs)

	var (
		// Indexes of the equalities seen so far.
		equalities   []int
		lastEquality []rune
		haveLast     bool

		// Edits before and after the last equality.
		insertions1, deletions1 int
		insertions2, deletions2 int
	)

	for pointer := 0; pointer < len(diffs); pointer++ {
		if diffs[pointer].op == Equal {
			equalities = append(equalities, pointer)
			insertions1, deletions1 = insertions2, deletions2
			insertions2, deletions2 = 0, 0
			lastEquality, haveLast = diffs[pointer].text, true
			continue
		}

		if diffs[pointer].op == Insert {
			insertions2 += len(diffs[pointer].text)
		} else {
			deletions2 += len(diffs[pointer].text)
		}

		// Eliminate an equality no larger than the edits on both sides.
		if haveLast &&
			len(lastEquality) <= max(insertions1, deletions1) &&
			len(lastEquality) <= max(insertions2, deletions2) {
			top := equalities[len(equalities)-1]
			diffs = splice(diffs, top, 1,
				edit{op: Delete, text: lastEquality},
				edit{op: Insert, text: lastEquality},
			)

			// Drop the equality just removed and re-examine the one before.
			equalities = equalities[:len(equalities)-1]
			if len(equalities) > 0 {
				equalities = equalities[:len(equalities)-1]
			}

			pointer = -1
			if len(equalities) > 0 {
				pointer = equalities[len(equalities)-1]
			}

			insertions1, deletions1, insertions2, deletions2 = 0, 0, 0, 0
			lastEquality, haveLast = nil, false
		}
	}

	diffs = cleanupMerge(diffs)
	diffs = cleanupSemanticLossless(diffs)

	// Extract overlaps between deletions and insertions when the overlap is
	// at least half of either edit, e.g.
	//   <del>abcxxx</del><ins>xxxdef</ins> -> <del>abc</del>xxx<ins>def</ins>
	//   <del>xxxabc</del><ins>defxxx</ins> -> <ins>def</ins>xxx<del>abc</del>
	for pointer := 1; pointer < len(diffs); pointer++ {
		if diffs[pointer-1].op != Delete || diffs[pointer].op != Insert {
			continue
		}

		deletion, insertion := diffs[pointer-1].text, diffs[pointer].text
		overlap1 := commonOverlap(deletion, insertion)
		overlap2 := commonOverlap(insertion, deletion)

		if overlap1 >= overlap2 {
			if overlap1*2 >= len(deletion) || overlap1*2 >= len(insertion) {
				diffs = splice(diffs, pointer-1, 2,
					edit{op: Delete, text: deletion[:len(deletion)-overlap1]},
					edit{op: Equal, text: insertion[:overlap1]},
					edit{op: Insert, text: insertion[overlap1:]},
				)
				pointer++
			}
		} else if overlap2*2 >= len(deletion) || overlap2*2 >= len(insertion) {
			diffs = splice(diffs, pointer-1, 2,
				edit{op: Insert, text: insertion[:len(insertion)-overlap2]},
				edit{op: Equal, text: deletion[:overlap2]},
				edit{op: Delete, text: deletion[overlap2:]},
			)
			pointer++
		}

		pointer++
	}

	return diffs
}

func cleanupSemanticLossless(diffs []edit) []edit {
	diffs = slices.Clone(diffs)

	// The first and last entries never need checking.
	for pointer := 1; pointer < len(diffs)-1; pointer++ {
		if diffs[pointer-1].op != Equal || diffs[pointer+1].op != Equal {
			continue
		}

		equality1, change, equality2 := diffs[pointer-1].text, diffs[pointer].text, diffs[pointer+1].text

		// Shift the edit as far left as possible.
		if n := commonSuffix(equality1, change); n > 0 {
			common := change[len(change)-n:]
			equality1 = equality1[:len(equality1)-n]
			change = concat(common, change[:len(change)-n])
			equality2 = concat(common, equality2)
		}

		// Then step right one rune at a time looking for the best fit.
		best1, bestChange, best2 := equality1, change, equality2
		bestScore := semanticScore(equality1, change) + semanticScore(change, equality2)

		for len(change) != 0 && len(equality2) != 0 && change[0] == equality2[0] {
			equality1 = concat(equality1, change[:1])
			change = concat(change[1:], equality2[:1])
			equality2 = equality2[1:]

			// >= favours trailing over leading whitespace on edits.
			if score := semanticScore(equality1, change) + semanticScore(change, equality2); score >= bestScore {
				bestScore = score
				best1, bestChange, best2 = equality1, change, equality2
			}
		}

		if slices.Equal(diffs[pointer-1].text, best1) {
			continue
		}

		var replacement []edit
		for _, e := range []edit{
			{op: Equal, text: best1},
			{op: diffs[pointer].op, text: bestChange},
			{op: Equal, text: best2},
		} {
			if len(e.text) > 0 {
				replacement = append(replacement, e)
			}
		}

		diffs = splice(diffs, pointer-1, 3, replacement...)
		pointer -= 3 - len(replacement)
	}

	return diffs
}

// semanticScore rates how natural a boundary between one and two is, from
// 6 (best) to 0 (worst).
func semanticScore(one, two []rune) int {
	if len(one) == 0 || len(two) == 0 {
		return 6
	}

	char1, char2 := one[len(one)-1], two[0]
	nonAlphaNumeric1 := !unicode.IsLetter(char1) && !unicode.IsDigit(char1)
	nonAlphaNumeric2 := !unicode.IsLetter(char2) && !unicode.IsDigit(char2)
	whitespace1 := nonAlphaNumeric1 && unicode.IsSpace(char1)
	whitespace2 := nonAlphaNumeric2 && unicode.IsSpace(char2)
	lineBreak1 := whitespace1 && unicode.IsControl(char1)
	lineBreak2 := whitespace2 && unicode.IsControl(char2)
	blankLine1 := lineBreak1 && endsWithBlankLine(one)
	blankLine2 := lineBreak2 && startsWithBlankLine(two)

	switch {
	case blankLine1 || blankLine2:
		return 5
	case lineBreak1 || lineBreak2:
		return 4
	case nonAlphaNumeric1 && !whitespace1 && whitespace2:
		// End of sentence.
		return 3
	case whitespace1 || whitespace2:
		return 2
	case nonAlphaNumeric1 || nonAlphaNumeric2:
		return 1
	default:
		return 0
	}
}

var (
	lf   = []rune("\n\n")
	crlf = []rune("\n\r\n")
)

// endsWithBlankLine matches \n\r?\n at the end of s.
func endsWithBlankLine(s []rune) bool {
	return hasSuffix(s, lf) || hasSuffix(s, crlf)
}

// startsWithBlankLine matches \r?\n\r?\n at the start of s.
func startsWithBlankLine(s []rune) bool {
	if len(s) > 0 && s[0] == '\r' {
		s = s[1:]
	}

	return hasPrefix(s, lf) || hasPrefix(s, crlf)
}
