package querybuilder

import (
	"strconv"
	"strings"
)

// writer accumulates SQL text and positional arguments using $n placeholders.
type writer struct {
	buf  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

func (w *writer) word(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

// expr writes a fragment where every '?' is replaced with the next argument.
func (w *writer) expr(fragment string, args []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.buf.WriteByte(fragment[i])
	}
}

func (w *writer) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.word(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.word(" AND ")
		}
		c.write(w)
	}
}

func (w *writer) result() (string, []any) {
	return w.buf.String(), w.args
}

// Condition is a single predicate joined with AND in a WHERE clause.
type Condition interface {
	write(w *writer)
}

type condFunc func(w *writer)

func (f condFunc) write(w *writer) { f(w) }

func Eq(column string, value any) Condition {
	return condFunc(func(w *writer) {
		w.word(column, " = ")
		w.bind(value)
	})
}

func In(column string, values []any) Condition {
	return condFunc(func(w *writer) {
		if len(values) == 0 {
			w.word("1=0")
			return
		}
		w.word(column, " IN (")
		for i, v := range values {
			if i > 0 {
				w.word(", ")
			}
			w.bind(v)
		}
		w.word(")")
	})
}

func IsNull(column string) Condition {
	return condFunc(func(w *writer) {
		w.word(column, " IS NULL")
	})
}

// Expr is a raw predicate with '?' placeholders.
func Expr(fragment string, args ...any) Condition {
	return condFunc(func(w *writer) {
		w.expr(fragment, args)
	})
}
