// Package querybuilder assembles parameterized Postgres statements with $n
// placeholders. It covers the shapes the repositories need — filtered
// selects, multi-row inserts with upsert suffixes, and updates — nothing
// more.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate into the statement under
// construction.
type Condition func(w *sqlWriter)

type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) raw(s string) {
	w.buf.WriteString(s)
}

// bind appends the value to the arg list and writes its placeholder.
func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteByte('$')
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes sql, rebinding each ? to the next fragment arg.
func (w *sqlWriter) expr(sql string, exprArgs []any) {
	if len(exprArgs) == 0 {
		w.raw(sql)
		return
	}
	next := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' && next < len(exprArgs) {
			w.bind(exprArgs[next])
			next++
			continue
		}
		w.buf.WriteByte(sql[i])
	}
}

func Eq(column string, value any) Condition {
	return compare(column, "=", value)
}

func Gte(column string, value any) Condition {
	return compare(column, ">=", value)
}

func Lte(column string, value any) Condition {
	return compare(column, "<=", value)
}

func Neq(column string, value any) Condition {
	return compare(column, "<>", value)
}

func compare(column, op string, value any) Condition {
	return func(w *sqlWriter) {
		w.raw(column + " " + op + " ")
		w.bind(value)
	}
}

// In renders an IN list; an empty list renders as 1=0 so the predicate
// matches nothing instead of producing invalid SQL.
func In(column string, values []any) Condition {
	return func(w *sqlWriter) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column + " IN (")
		writeBindList(w, values)
		w.raw(")")
	}
}

// NotIn renders a NOT IN list; an empty list renders as 1=1.
func NotIn(column string, values []any) Condition {
	return func(w *sqlWriter) {
		if len(values) == 0 {
			w.raw("1=1")
			return
		}
		w.raw(column + " NOT IN (")
		writeBindList(w, values)
		w.raw(")")
	}
}

func writeBindList(w *sqlWriter, values []any) {
	for i, v := range values {
		if i > 0 {
			w.raw(", ")
		}
		w.bind(v)
	}
}

func IsNull(column string) Condition {
	return func(w *sqlWriter) {
		w.raw(column + " IS NULL")
	}
}

// Expr embeds a raw SQL fragment, binding each ? to the matching arg.
func Expr(sql string, args ...any) Condition {
	return func(w *sqlWriter) {
		w.expr(sql, args)
	}
}

// EqLiteral inlines a quoted string literal. For trusted constants only.
func EqLiteral(column, value string) Condition {
	return func(w *sqlWriter) {
		w.raw(column + " = '" + strings.ReplaceAll(value, "'", "''") + "'")
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
	offset  int
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

// Suffix appends raw SQL after every generated clause, e.g. "FOR UPDATE".
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select table is required")
	}

	var w sqlWriter
	w.raw("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	writeWhere(&w, b.where)
	if len(b.groupBy) > 0 {
		w.raw(" GROUP BY " + strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		w.raw(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.raw(" LIMIT " + strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		w.raw(" OFFSET " + strconv.Itoa(b.offset))
	}
	if b.suffix != "" {
		w.raw(" " + b.suffix)
	}

	return w.buf.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values adds one row; call repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("insert values are required")
	}

	var w sqlWriter
	w.raw("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		writeBindList(&w, row)
		w.raw(")")
	}
	if b.suffix != "" {
		w.raw(" " + b.suffix)
	}

	return w.buf.String(), w.args, nil
}

type setClause struct {
	column string
	value  any
	sql    string
	args   []any
	isExpr bool
}

type UpdateBuilder struct {
	table  string
	sets   []setClause
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, binding each ? to the matching arg.
func (b *UpdateBuilder) SetExpr(column, sql string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, sql: sql, args: args, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update sets are required")
	}

	var w sqlWriter
	w.raw("UPDATE " + b.table + " SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(s.column + " = ")
		if s.isExpr {
			w.expr(s.sql, s.args)
			continue
		}
		w.bind(s.value)
	}

	writeWhere(&w, b.where)
	if b.suffix != "" {
		w.raw(" " + b.suffix)
	}

	return w.buf.String(), w.args, nil
}

func writeWhere(w *sqlWriter, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.raw(" AND ")
		}
		c(w)
	}
}
