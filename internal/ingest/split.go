package ingest

import "strings"

// splitStatements strips `--` line comments and `/* … */` block comments
// from buf and splits what remains into top-level statements on `;`,
// honouring single-, double-, and backtick-quoted regions (with doubled
// quote escaping) so that none of those characters are mistaken for a
// comment or statement terminator while inside a quoted span.
//
// This is the part of spec.md §4.4's grammar a standards-compliant SQL
// parser cannot be handed directly: it must tolerate arbitrary trailing
// garbage and never error on the statements it isn't going to recognise
// anyway, so it is hand-written in the teacher's lexer idiom rather than
// delegated to a library.
func splitStatements(buf string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(buf)
	n := len(runes)

	var quote rune // 0, '\'', '"', or '`'
	for i := 0; i < n; i++ {
		c := runes[i]

		if quote != 0 {
			cur.WriteRune(c)
			if c == quote {
				// Doubled quote inside the same quote char is an escape;
				// consume the pair and stay quoted.
				if i+1 < n && runes[i+1] == quote {
					cur.WriteRune(runes[i+1])
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			cur.WriteRune(c)
		case c == '-' && i+1 < n && runes[i+1] == '-':
			for i < n && runes[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && runes[i+1] == '*':
			i += 2
			for i+1 < n && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++ // land on the closing '/'
		case c == ';':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}

	filtered := out[:0]
	for _, s := range out {
		if s != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
