package cmdline

import "strings"

// SplitCommandLine splits a command line on unquoted whitespace. Double
// quotes group words and are removed; a backslash escapes a following
// double quote or backslash.
//
//	SplitCommandLine(`build --msg "hello world"`) // [build --msg hello world]
func SplitCommandLine(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
		started  bool
	)
	flush := func() {
		if started {
			out = append(out, cur.String())
			cur.Reset()
			started = false
		}
	}
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\'):
			i++
			cur.WriteByte(line[i])
			started = true
		case ch == '"':
			inQuotes = !inQuotes
			started = true
		case !inQuotes && (ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'):
			flush()
		default:
			cur.WriteByte(ch)
			started = true
		}
	}
	flush()
	return out
}

// unquote removes one layer of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if first, last := s[0], s[len(s)-1]; first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
