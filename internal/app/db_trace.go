package app

import (
	"strings"
	"unicode/utf8"
)

// tracedQueryLimit caps the db.statement attribute attached to SQL spans.
const tracedQueryLimit = 512

// formatDBQueryForTrace renders a statement for otelsql spans: whitespace is
// collapsed to single spaces and quoted literals become '?', so seeded team
// and player names never reach the tracing backend. Bind parameters ($1..)
// are kept as written.
func formatDBQueryForTrace(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if compact == "" {
		return ""
	}

	masked := maskSQLLiterals(compact)
	if len(masked) <= tracedQueryLimit {
		return masked
	}
	cut := tracedQueryLimit
	for cut > 0 && !utf8.RuneStart(masked[cut]) {
		cut--
	}
	return masked[:cut] + "..."
}

// maskSQLLiterals replaces every single-quoted literal with '?'. A doubled
// quote inside a literal is an escaped quote.
func maskSQLLiterals(query string) string {
	if !strings.Contains(query, "'") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case !inLiteral && c == '\'':
			inLiteral = true
			b.WriteString("'?'")
		case inLiteral && c == '\'':
			if i+1 < len(query) && query[i+1] == '\'' {
				i++
				continue
			}
			inLiteral = false
		case !inLiteral:
			b.WriteByte(c)
		}
	}
	return b.String()
}
