// Package querybuilder renders Postgres statements with positional placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text and its bound arguments.
type sqlWriter struct {
	sb   strings.Builder
	args []any
}

func (w *sqlWriter) write(parts ...string) {
	for _, p := range parts {
		w.sb.WriteString(p)
	}
}

// bind records value and returns its placeholder.
func (w *sqlWriter) bind(value any) string {
	w.args = append(w.args, value)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.write(" WHERE ")
		} else {
			w.write(" AND ")
		}
		c.render(w)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.sb.String(), w.args, nil
}

func requireTable(stmt, table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%s table is required", stmt)
	}
	return nil
}

// Condition is one predicate of a WHERE clause. Conditions are joined by AND.
type Condition interface {
	render(w *sqlWriter)
}

type equals struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return equals{column: column, value: value}
}

func (c equals) render(w *sqlWriter) {
	w.write(c.column, " = ", w.bind(c.value))
}

type SelectBuilder struct {
	table   string
	columns []string
	conds   []Condition
	order   []string
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
	b.conds = append(b.conds, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.order = append(b.order, columns...)
	return b
}

// Limit caps the row count. Zero or less renders no LIMIT.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("select", b.table); err != nil {
		return "", nil, err
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}

	var w sqlWriter
	w.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.conds)
	if len(b.order) > 0 {
		w.write(" ORDER BY ", strings.Join(b.order, ", "))
	}
	if b.limit > 0 {
		w.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// Suffix appends raw SQL such as "ON CONFLICT DO NOTHING RETURNING id".
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("insert", b.table); err != nil {
		return "", nil, err
	}
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.values) != len(b.columns):
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(b.values), len(b.columns))
	}

	var w sqlWriter
	w.write("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.write(", ")
		}
		w.write(w.bind(v))
	}
	w.write(")")
	if b.suffix != "" {
		w.write(" ", b.suffix)
	}
	return w.result()
}

type DeleteBuilder struct {
	table string
	conds []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.conds = append(b.conds, conds...)
	return b
}

// ToSQL refuses to render a DELETE without a WHERE clause.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if err := requireTable("delete", b.table); err != nil {
		return "", nil, err
	}
	if len(b.conds) == 0 {
		return "", nil, errors.New("delete conditions are required")
	}

	var w sqlWriter
	w.write("DELETE FROM ", b.table)
	w.where(b.conds)
	return w.result()
}
