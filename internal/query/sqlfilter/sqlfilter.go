// Package sqlfilter compiles a filter.Filter predicate tree into a SQL
// fragment plus its bound arguments, for backends accessed through
// database/sql or pgx.
//
// Grounded on the teacher's sqlite.ArticleQueryBuilder.BuildWhereClause
// (a WHERE-clause assembler that accumulates a parallel args slice rather
// than interpolating values into the query text) and on the pack's
// original_source query crate's ToSql operator mapping
// (Contains/StartsWith/EndsWith as LIKE patterns, InLast as an epoch
// subtraction that is dialect-specific).
package sqlfilter

import (
	"fmt"
	"strings"
	"time"

	"colette/internal/query/filter"
)

// Dialect selects the SQL backend-specific fragments the compiler emits
// (the bind placeholder style and DateOp.InLast's epoch-extraction expression).
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// escapeLike escapes LIKE metacharacters in user-supplied text before it is
// wrapped in '%'/'_' wildcards, so a value containing '%' or '_' cannot
// alter the shape of the match.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// builder accumulates SQL text and bound arguments while walking a
// filter.Filter tree. Placeholders are rendered by placeholder(), so the
// same walk supports both pgx's $N and database/sql's ? styles.
type builder struct {
	dialect Dialect
	args    []any
}

func (b *builder) placeholder() string {
	switch b.dialect {
	case DialectPostgres:
		return fmt.Sprintf("$%d", len(b.args))
	default:
		return "?"
	}
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return b.placeholder()
}

// Compile renders f into a parenthesized boolean SQL expression and its
// bound arguments, in tree order. The returned args slice must be passed to
// the query call in order; no user value is ever interpolated into the
// returned string.
func Compile(f filter.Filter, dialect Dialect) (string, []any, error) {
	b := &builder{dialect: dialect}
	expr, err := b.compileNode(f)
	if err != nil {
		return "", nil, err
	}
	return expr, b.args, nil
}

func (b *builder) compileNode(f filter.Filter) (string, error) {
	switch f.Kind {
	case filter.KindAnd:
		return b.compileBoolGroup(f.Children, "AND")
	case filter.KindOr:
		return b.compileBoolGroup(f.Children, "OR")
	case filter.KindNot:
		if len(f.Children) != 1 {
			return "", fmt.Errorf("sqlfilter: Not requires exactly one child, got %d", len(f.Children))
		}
		inner, err := b.compileNode(f.Children[0])
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil
	case filter.KindText:
		return b.compileText(f)
	case filter.KindNumber:
		return b.compileNumber(f)
	case filter.KindBoolean:
		return b.compileBoolean(f)
	case filter.KindDate:
		return b.compileDate(f)
	default:
		return "", fmt.Errorf("sqlfilter: unknown filter kind %d", f.Kind)
	}
}

func (b *builder) compileBoolGroup(children []filter.Filter, joiner string) (string, error) {
	if len(children) == 0 {
		return "", fmt.Errorf("sqlfilter: %s requires at least one child", joiner)
	}
	parts := make([]string, 0, len(children))
	for _, c := range children {
		part, err := b.compileNode(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, " "+joiner+" ") + ")", nil
}

func (b *builder) compileText(f filter.Filter) (string, error) {
	if f.Text == nil {
		return "", fmt.Errorf("sqlfilter: text field %q missing operator", f.Field)
	}
	op := f.Text
	switch {
	case op.Equals != nil:
		return fmt.Sprintf("%s = %s", f.Field, b.bind(*op.Equals)), nil
	case op.Contains != nil:
		return fmt.Sprintf("%s LIKE %s", f.Field, b.bind("%"+escapeLike(*op.Contains)+"%")), nil
	case op.StartsWith != nil:
		return fmt.Sprintf("%s LIKE %s", f.Field, b.bind(escapeLike(*op.StartsWith)+"%")), nil
	case op.EndsWith != nil:
		return fmt.Sprintf("%s LIKE %s", f.Field, b.bind("%"+escapeLike(*op.EndsWith))), nil
	default:
		return "", fmt.Errorf("sqlfilter: text field %q has no operator set", f.Field)
	}
}

func (b *builder) compileNumber(f filter.Filter) (string, error) {
	if f.Num == nil {
		return "", fmt.Errorf("sqlfilter: number field %q missing operator", f.Field)
	}
	op := f.Num
	switch {
	case op.Equals != nil:
		return fmt.Sprintf("%s = %s", f.Field, b.bind(*op.Equals)), nil
	case op.LessThan != nil:
		return fmt.Sprintf("%s < %s", f.Field, b.bind(*op.LessThan)), nil
	case op.GreaterThan != nil:
		return fmt.Sprintf("%s > %s", f.Field, b.bind(*op.GreaterThan)), nil
	case op.Between != nil:
		lo := b.bind(op.Between.Start)
		hi := b.bind(op.Between.End)
		return fmt.Sprintf("%s BETWEEN %s AND %s", f.Field, lo, hi), nil
	default:
		return "", fmt.Errorf("sqlfilter: number field %q has no operator set", f.Field)
	}
}

func (b *builder) compileBoolean(f filter.Filter) (string, error) {
	if f.Bool == nil || f.Bool.Equals == nil {
		return "", fmt.Errorf("sqlfilter: boolean field %q missing operator", f.Field)
	}
	return fmt.Sprintf("%s = %s", f.Field, b.bind(*f.Bool.Equals)), nil
}

func (b *builder) compileDate(f filter.Filter) (string, error) {
	if f.Date == nil {
		return "", fmt.Errorf("sqlfilter: date field %q missing operator", f.Field)
	}
	op := f.Date
	switch {
	case op.Before != nil:
		return fmt.Sprintf("%s < %s", f.Field, b.bind(*op.Before)), nil
	case op.After != nil:
		return fmt.Sprintf("%s > %s", f.Field, b.bind(*op.After)), nil
	case op.Between != nil:
		lo := b.bind(op.Between.Start)
		hi := b.bind(op.Between.End)
		return fmt.Sprintf("%s BETWEEN %s AND %s", f.Field, lo, hi), nil
	case op.InLast != nil:
		seconds := b.bind(*op.InLast)
		return fmt.Sprintf("(%s - %s) < %s", nowEpochExpr(b.dialect), columnEpochExpr(b.dialect, f.Field), seconds), nil
	default:
		return "", fmt.Errorf("sqlfilter: date field %q has no operator set", f.Field)
	}
}

// nowEpochExpr returns the dialect's expression for "seconds since epoch,
// now". Postgres uses extract(epoch from now()); SQLite has no extract()
// built-in and instead uses strftime('%s','now').
func nowEpochExpr(dialect Dialect) string {
	switch dialect {
	case DialectSQLite:
		return "strftime('%s','now')"
	default:
		return "extract(epoch from now())"
	}
}

// columnEpochExpr returns the dialect's expression for converting a
// timestamp column to seconds since epoch.
func columnEpochExpr(dialect Dialect, column string) string {
	switch dialect {
	case DialectSQLite:
		return fmt.Sprintf("strftime('%%s', %s)", column)
	default:
		return fmt.Sprintf("extract(epoch from %s)", column)
	}
}

// keeps the time import referenced; it checks nothing about either driver.
var _ = time.Time{}
