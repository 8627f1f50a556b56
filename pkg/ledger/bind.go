package ledger

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// bind rewrites the @Name parameters of query into the placeholder style ph
// and returns the matching arguments in order of appearance. Parameters
// inside single quoted literals are left alone, as are @@ system variables.
func bind(query string, ph Placeholder, params map[string]any) (string, []any, error) {
	var (
		sb      strings.Builder
		args    []any
		inQuote bool
	)

	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == '@' && !inQuote && i+1 < len(runes) && runes[i+1] == '@':
			sb.WriteString("@@")
			i++
			continue
		case r == '@' && !inQuote && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}

			name := string(runes[i+1 : j])
			v, ok := params[name]
			if !ok {
				return "", nil, errors.Errorf("no value for parameter @%s", name)
			}

			args = append(args, v)
			if ph == Dollar {
				sb.WriteString("$" + strconv.Itoa(len(args)))
			} else {
				sb.WriteByte('?')
			}

			i = j - 1
			continue
		}

		sb.WriteRune(r)
	}

	return sb.String(), args, nil
}
