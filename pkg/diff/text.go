package diff

import "slices"

// concat always allocates so that callers never write into a slice that
// shares a backing array with another text.
func concat(parts ...[]rune) []rune {
	n := 0
	for _, p := range parts {
		n += len(p)
	}

	out := make([]rune, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func hasPrefix(s, prefix []rune) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

func hasSuffix(s, suffix []rune) bool {
	return len(s) >= len(suffix) && slices.Equal(s[len(s)-len(suffix):], suffix)
}

// index returns the position of the first occurrence of sep in s at or after
// from, or -1.
func index(s, sep []rune, from int) int {
	if from < 0 {
		from = 0
	}

	if len(sep) == 0 {
		if from > len(s) {
			return -1
		}
		return from
	}

	last := len(s) - len(sep)
	for i := from; i <= last; i++ {
		if s[i] == sep[0] && slices.Equal(s[i:i+len(sep)], sep) {
			return i
		}
	}

	return -1
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}

func commonSuffix(a, b []rune) int {
	la, lb := len(a), len(b)
	n := min(la, lb)
	for i := 1; i <= n; i++ {
		if a[la-i] != b[lb-i] {
			return i - 1
		}
	}

	return n
}

// commonOverlap finds the longest suffix of a that is a prefix of b.
// See https://neil.fraser.name/news/2010/11/04/ for the search strategy.
func commonOverlap(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	if la > lb {
		a = a[la-lb:]
	} else if la < lb {
		b = b[:la]
	}

	n := min(la, lb)
	if slices.Equal(a, b) {
		return n
	}

	best, length := 0, 1
	for {
		found := index(b, a[n-length:], 0)
		if found == -1 {
			return best
		}

		length += found
		if found == 0 || slices.Equal(a[n-length:], b[:length]) {
			best = length
			length++
		}
	}
}

// halfMatch holds the split found by findHalfMatch. prefix1 and suffix1
// always belong to the first text.
type halfMatch struct {
	prefix1, suffix1 []rune
	prefix2, suffix2 []rune
	common           []rune
}

// findHalfMatch looks for a substring shared by both texts that is at least
// half the length of the longer one. The result may not be minimal.
func findHalfMatch(text1, text2 []rune) *halfMatch {
	long, short := text2, text1
	if len(text1) > len(text2) {
		long, short = text1, text2
	}

	if len(long) < 4 || len(short)*2 < len(long) {
		return nil
	}

	// Seed from the second and third quarters.
	hm1 := halfMatchAt(long, short, (len(long)+3)/4)
	hm2 := halfMatchAt(long, short, (len(long)+1)/2)

	var hm *halfMatch
	switch {
	case hm1 == nil && hm2 == nil:
		return nil
	case hm2 == nil:
		hm = hm1
	case hm1 == nil:
		hm = hm2
	case len(hm1.common) > len(hm2.common):
		hm = hm1
	default:
		hm = hm2
	}

	if len(text1) > len(text2) {
		return hm
	}

	return &halfMatch{
		prefix1: hm.prefix2,
		suffix1: hm.suffix2,
		prefix2: hm.prefix1,
		suffix2: hm.suffix1,
		common:  hm.common,
	}
}

// halfMatchAt seeds the search with the quarter of long starting at i. The
// first pair of the result belongs to long.
func halfMatchAt(long, short []rune, i int) *halfMatch {
	seed := long[i : i+len(long)/4]

	var best halfMatch
	for j := index(short, seed, 0); j != -1; j = index(short, seed, j+1) {
		prefixLen := commonPrefix(long[i:], short[j:])
		suffixLen := commonSuffix(long[:i], short[:j])

		if len(best.common) < prefixLen+suffixLen {
			best = halfMatch{
				prefix1: long[:i-suffixLen],
				suffix1: long[i+prefixLen:],
				prefix2: short[:j-suffixLen],
				suffix2: short[j+prefixLen:],
				common:  short[j-suffixLen : j+prefixLen],
			}
		}
	}

	if len(best.common)*2 < len(long) {
		return nil
	}

	return &best
}
