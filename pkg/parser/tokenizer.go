package parser

import (
	"strings"

	"github.com/ekaya-inc/ekaya-tabular/pkg/models"
)

// SplitLines splits text on \n or \r\n and drops lines that are empty or
// whitespace-only.
//
// Limitations:
// - Quoted fields cannot span lines; a newline always ends a record.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// DetectDelimiter picks the delimiter that occurs most often in line.
// Ties go to the earlier entry of models.DelimiterPrecedence, so a line with
// no candidates at all yields a comma.
func DetectDelimiter(line string) models.Delimiter {
	best := models.DelimiterComma
	bestCount := -1
	for _, d := range models.DelimiterPrecedence {
		n := strings.Count(line, string(d))
		if n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// SplitFields splits one line into fields with quote awareness:
// - a field may be wrapped in double quotes
// - "" inside a quoted field is an escaped quote
// - the delimiter inside quotes is literal
// - whitespace outside quotes is trimmed
//
// Quotes that do not open a field are kept literally. An unterminated quote
// runs to the end of the line. Text after a closing quote is appended to the
// field with surrounding whitespace removed.
func SplitFields(line string, d models.Delimiter) []string {
	sep := byte(',')
	if d != models.DelimiterNone {
		sep = d[0]
	}

	fields := make([]string, 0, strings.Count(line, string(sep))+1)
	var b strings.Builder
	i, n := 0, len(line)

	for {
		for i < n && isPadding(line[i], sep) {
			i++
		}

		if i < n && line[i] == '"' {
			i++
			for i < n {
				c := line[i]
				if c == '"' {
					if i+1 < n && line[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			start := i
			for i < n && line[i] != sep {
				i++
			}
			b.WriteString(strings.TrimSpace(line[start:i]))
			fields = append(fields, b.String())
			b.Reset()
		} else {
			start := i
			for i < n && line[i] != sep {
				i++
			}
			fields = append(fields, strings.TrimSpace(line[start:i]))
		}

		if i >= n {
			break
		}
		i++ // consume the delimiter; a trailing delimiter yields one more empty field
	}

	return fields
}

// isPadding reports whether c is whitespace that may precede a field.
// The delimiter itself is never padding, which matters for tab.
func isPadding(c, sep byte) bool {
	if c == sep {
		return false
	}
	return c == ' ' || c == '\t'
}
