package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w writer
	w.word("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.word(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.word(" LIMIT ", strconv.Itoa(b.limit))
	}
	query, args := w.result()
	return query, args, nil
}

// UpsertBuilder renders INSERT ... ON CONFLICT (...) DO UPDATE for a single row.
type UpsertBuilder struct {
	table    string
	columns  []string
	values   []any
	conflict []string
	keep     map[string]struct{}
	guard    string
}

func Upsert(table string) *UpsertBuilder {
	return &UpsertBuilder{table: table, keep: map[string]struct{}{}}
}

func (b *UpsertBuilder) Set(column string, value any) *UpsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// OnConflict names the unique columns; they are never overwritten.
func (b *UpsertBuilder) OnConflict(columns ...string) *UpsertBuilder {
	b.conflict = append(b.conflict, columns...)
	for _, c := range columns {
		b.keep[c] = struct{}{}
	}
	return b
}

// Preserve keeps the stored value of columns on conflict.
func (b *UpsertBuilder) Preserve(columns ...string) *UpsertBuilder {
	for _, c := range columns {
		b.keep[c] = struct{}{}
	}
	return b
}

// When adds a raw predicate to DO UPDATE, e.g. "t.updated_at <= EXCLUDED.updated_at".
func (b *UpsertBuilder) When(predicate string) *UpsertBuilder {
	b.guard = strings.TrimSpace(predicate)
	return b
}

func (b *UpsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("upsert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("upsert columns are required")
	}
	if len(b.conflict) == 0 {
		return "", nil, fmt.Errorf("upsert conflict columns are required")
	}

	var w writer
	w.word("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.word(", ")
		}
		w.bind(v)
	}
	w.word(") ON CONFLICT (", strings.Join(b.conflict, ", "), ") DO ")

	updates := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		if _, ok := b.keep[c]; ok {
			continue
		}
		updates = append(updates, c+" = EXCLUDED."+c)
	}
	if len(updates) == 0 {
		w.word("NOTHING")
	} else {
		w.word("UPDATE SET ", strings.Join(updates, ", "))
		if b.guard != "" {
			w.word(" WHERE ", b.guard)
		}
	}
	query, args := w.result()
	return query, args, nil
}

type UpdateBuilder struct {
	table string
	sets  []func(w *writer)
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, func(w *writer) {
		w.word(column, " = ")
		w.bind(value)
	})
	return b
}

func (b *UpdateBuilder) SetExpr(column, fragment string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, func(w *writer) {
		w.word(column, " = ")
		w.expr(fragment, args)
	})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("update without where is not allowed")
	}

	var w writer
	w.word("UPDATE ", b.table, " SET ")
	for i, set := range b.sets {
		if i > 0 {
			w.word(", ")
		}
		set(&w)
	}
	w.where(b.where)
	query, args := w.result()
	return query, args, nil
}
