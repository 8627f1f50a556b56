package diff

// lineTable maps each distinct line to a single rune so that a line level
// diff can reuse the character algorithm. Identifiers start at 1. A table is
// owned by a single diff call.
type lineTable struct {
	lines [][]rune
	ids   map[string]rune
}

func newLineTable() *lineTable {
	return &lineTable{ids: make(map[string]rune)}
}

// compress replaces every line, including its trailing newline, with its
// identifier.
func (t *lineTable) compress(text []rune) []rune {
	var out []rune
	for start := 0; start < len(text); {
		end := len(text)
		for i := start; i < len(text); i++ {
			if text[i] == '\n' {
				end = i + 1
				break
			}
		}

		line := text[start:end]
		key := string(line)

		id, ok := t.ids[key]
		if !ok {
			t.lines = append(t.lines, line)
			id = rune(len(t.lines))
			t.ids[key] = id
		}

		out = append(out, id)
		start = end
	}

	return out
}

func (t *lineTable) decompress(ids []rune) []rune {
	var out []rune
	for _, id := range ids {
		out = append(out, t.lines[id-1]...)
	}

	return out
}
