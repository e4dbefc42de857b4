// Package query builds parameterized SQL over the documents table.
// Document fields live in a JSONB data column; the system fields _id, createdAt
// and updatedAt map to dedicated columns.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidField is returned when a field name cannot be used in a query.
var ErrInvalidField = errors.New("invalid field")

// Table is the documents table queried by the builder.
const Table = "documents"

// Columns selected for every document row.
const Columns = "id, data, created_at, updated_at"

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*(\.[A-Za-z_][A-Za-z0-9_-]*)*$`)

var systemColumns = map[string]string{
	"_id":       "id",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type condition struct {
	clause string
	args   []any
}

// Builder constructs SQL queries using a fluent API with automatic parameter numbering.
// The first error raised by a Where or OrderBy call is reported by the Build methods.
type Builder struct {
	collection string
	conditions []condition
	sort       []SortField
	err        error
}

// NewBuilder creates a Builder scoped to a single collection.
func NewBuilder(collection string) *Builder {
	return &Builder{
		collection: collection,
		conditions: make([]condition, 0),
	}
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", Table, where), args, nil
}

// BuildPage returns a SELECT query with ordering, limit, and offset.
// A limit below one selects every matching row.
func (b *Builder) BuildPage(limit, offset int) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	where, args := b.buildWhere()

	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", Columns, Table, where, b.buildOrderBy())
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		sql += fmt.Sprintf(" OFFSET %d", offset)
	}
	return sql, args, nil
}

// OrderBy appends sort criteria. Without criteria rows are ordered by insertion.
func (b *Builder) OrderBy(fields ...SortField) *Builder {
	for _, f := range fields {
		if !fieldPattern.MatchString(f.Field) {
			b.fail(f.Field)
			continue
		}
		b.sort = append(b.sort, f)
	}
	return b
}

// WhereEquals adds an equality condition. Document fields match by JSONB containment,
// so a scalar value also matches arrays holding it. A nil value matches a null or missing field.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if col, ok := systemColumns[field]; ok {
		if value == nil {
			b.conditions = append(b.conditions, condition{clause: "FALSE"})
			return b
		}
		b.conditions = append(b.conditions, condition{
			clause: fmt.Sprintf("%s::text = $%%d", col),
			args:   []any{fmt.Sprint(value)},
		})
		return b
	}

	if value == nil {
		if !fieldPattern.MatchString(field) {
			b.fail(field)
			return b
		}
		b.conditions = append(b.conditions, condition{
			clause: "COALESCE(data #> $%d::text[], 'null'::jsonb) = 'null'::jsonb",
			args:   []any{textPath(field)},
		})
		return b
	}

	exact, err := containment(field, value)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	switch value.(type) {
	case []any, map[string]any:
		b.conditions = append(b.conditions, condition{
			clause: "data @> $%d::jsonb",
			args:   []any{exact},
		})
	default:
		member, err := containment(field, []any{value})
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.conditions = append(b.conditions, condition{
			clause: "(data @> $%d::jsonb OR data @> $%d::jsonb)",
			args:   []any{exact, member},
		})
	}
	return b
}

// WhereMatches adds a case-insensitive POSIX regular expression condition.
func (b *Builder) WhereMatches(field, pattern string) *Builder {
	if col, ok := systemColumns[field]; ok {
		b.conditions = append(b.conditions, condition{
			clause: fmt.Sprintf("%s::text ~* $%%d", col),
			args:   []any{pattern},
		})
		return b
	}
	if !fieldPattern.MatchString(field) {
		b.fail(field)
		return b
	}

	b.conditions = append(b.conditions, condition{
		clause: "(data #>> $%d::text[]) ~* $%d",
		args:   []any{textPath(field), pattern},
	})
	return b
}

func (b *Builder) fail(field string) {
	b.err = errors.Join(b.err, fmt.Errorf("%w: %q", ErrInvalidField, field))
}

func (b *Builder) buildOrderBy() string {
	if len(b.sort) == 0 {
		return " ORDER BY created_at ASC, id ASC"
	}

	parts := make([]string, 0, len(b.sort)+1)
	for _, f := range b.sort {
		col, ok := systemColumns[f.Field]
		if !ok {
			col = fmt.Sprintf("data #> '%s'", textPath(f.Field))
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	clauses := []string{"collection = $1"}
	args := []any{b.collection}
	paramIdx := 2

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// containment wraps value in the nested objects named by a dotted field path
// and encodes the result as JSON.
func containment(field string, value any) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	segments := strings.Split(field, ".")
	doc := value
	for i := len(segments) - 1; i >= 0; i-- {
		doc = map[string]any{segments[i]: doc}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return string(data), nil
}

func textPath(field string) string {
	return "{" + strings.ReplaceAll(field, ".", ",") + "}"
}
