package query

import (
	"fmt"
	"reflect"
	"strings"
)

// paramSlot marks where a positional parameter belongs in a predicate;
// buildWhere rewrites each slot to its final $n once ordering is known.
const paramSlot = "$%d"

type predicate struct {
	clause string
	args   []any
}

// SortField is one column of an ORDER BY clause. Field is the logical name
// resolved through the ProjectionMap.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses a comma-separated sort expression; a "-" prefix
// marks a field descending ("title,-created_at"). Empty input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, descending := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: field, Descending: descending})
	}
	return fields
}

// Builder accumulates predicates and ordering against a projection and
// renders SELECT statements with sequential parameter numbering.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	sortFields  []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder over projection. defaultSort applies when no
// explicit ordering is set.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		predicates:  make([]predicate, 0),
		defaultSort: defaultSort,
	}
}

// OrderByFields overrides the default sort order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sortFields = fields
	return b
}

// WhereEquals adds an equality predicate. Nil values are ignored; non-nil
// pointers bind the value they point at.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	if v := reflect.ValueOf(value); v.Kind() == reflect.Pointer {
		value = v.Elem().Interface()
	}
	b.predicates = append(b.predicates, predicate{
		clause: fmt.Sprintf("%s = %s", b.projection.Column(field), paramSlot),
		args:   []any{value},
	})
	return b
}

// WhereContains adds a case-insensitive substring predicate. Nil and empty
// values are ignored.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	b.predicates = append(b.predicates, predicate{
		clause: fmt.Sprintf("%s ILIKE %s", b.projection.Column(field), paramSlot),
		args:   []any{"%" + *value + "%"},
	})
	return b
}

// WhereIn adds an IN predicate. Empty slices are ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}

	slots := make([]string, len(values))
	for i := range values {
		slots[i] = paramSlot
	}
	b.predicates = append(b.predicates, predicate{
		clause: fmt.Sprintf("%s IN (%s)", b.projection.Column(field), strings.Join(slots, ", ")),
		args:   values,
	})
	return b
}

// WhereNullable adds an equality predicate, or IS NULL when value is nil.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		b.predicates = append(b.predicates, predicate{clause: col + " IS NULL"})
		return b
	}
	b.predicates = append(b.predicates, predicate{
		clause: fmt.Sprintf("%s = %s", col, paramSlot),
		args:   []any{value},
	})
	return b
}

// WhereSearch adds an OR of ILIKE predicates across fields. Nil and empty
// searches are ignored.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	pattern := "%" + *search + "%"
	for i, field := range fields {
		clauses[i] = fmt.Sprintf("%s ILIKE %s", b.projection.Column(field), paramSlot)
		args[i] = pattern
	}

	b.predicates = append(b.predicates, predicate{
		clause: "(" + strings.Join(clauses, " OR ") + ")",
		args:   args,
	})
	return b
}

// Build renders a SELECT with the accumulated predicates and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.From(), where, b.buildOrderBy(),
	)
	return sql, args
}

// BuildCount renders a COUNT(*) with the accumulated predicates.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// BuildPage renders a SELECT with ordering, LIMIT, and OFFSET for the given
// one-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(), b.projection.From(), where, b.buildOrderBy(),
		pageSize, (page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle renders a SELECT of one record by its identifier field.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.From(), b.projection.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull renders a SELECT limited to one row with the
// accumulated predicates.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s LIMIT 1",
		b.projection.Columns(), b.projection.From(), where,
	)
	return sql, args
}

func (b *Builder) buildOrderBy() string {
	fields := b.sortFields
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", b.projection.Column(f.Field), dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.predicates) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.predicates))
	args := make([]any, 0)
	n := 1
	for _, p := range b.predicates {
		clause := p.clause
		for _, arg := range p.args {
			clause = strings.Replace(clause, paramSlot, fmt.Sprintf("$%d", n), 1)
			args = append(args, arg)
			n++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
