package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Query accumulates a WHERE clause, ordering and paging for a collection.
// Expressions come from code; values are always bound as parameters.
type Query struct {
	conds  []string
	args   []any
	order  []string
	limit  int
	offset int
}

// NewQuery returns an empty query matching every document.
func NewQuery() *Query {
	return &Query{}
}

func (q *Query) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// Where adds a condition. Each %s in cond is replaced by a placeholder bound to
// the matching value.
func (q *Query) Where(cond string, vals ...any) *Query {
	ph := make([]any, len(vals))
	for i, v := range vals {
		ph[i] = q.bind(v)
	}
	q.conds = append(q.conds, "("+fmt.Sprintf(cond, ph...)+")")
	return q
}

// Eq adds expr = value. Empty strings are ignored.
func (q *Query) Eq(expr, value string) *Query {
	if value == "" {
		return q
	}
	return q.Where(expr+" = %s", value)
}

// In adds expr = ANY(values). Empty lists are ignored.
func (q *Query) In(expr string, values []string) *Query {
	if len(values) == 0 {
		return q
	}
	return q.Where(expr+" = ANY(%s)", values)
}

// Contains adds a case-insensitive substring match. Empty strings are ignored.
func (q *Query) Contains(expr, value string) *Query {
	if value == "" {
		return q
	}
	return q.Where("strpos(lower("+expr+"), lower(%s)) > 0", value)
}

// OrderBy appends a sort key.
func (q *Query) OrderBy(expr string, desc bool) *Query {
	dir := "ASC NULLS LAST"
	if desc {
		dir = "DESC NULLS LAST"
	}
	q.order = append(q.order, expr+" "+dir)
	return q
}

// Page limits the result to one zero-based page.
func (q *Query) Page(page, size int) *Query {
	if size <= 0 {
		return q
	}
	if page < 0 {
		page = 0
	}
	q.limit = size
	q.offset = page * size
	return q
}

// Args returns the bound values in placeholder order.
func (q *Query) Args() []any {
	return q.args
}

// WhereSQL renders the WHERE clause, or "" when unconditional.
func (q *Query) WhereSQL() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// TailSQL renders ORDER BY, LIMIT and OFFSET.
func (q *Query) TailSQL() string {
	var b strings.Builder
	if len(q.order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.order, ", "))
	}
	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d OFFSET %d", q.limit, q.offset)
	}
	return b.String()
}

// Field returns the text expression for a top-level document field.
func Field(name string) string {
	return "doc->>'" + name + "'"
}

// TimeField returns a timestamptz expression for a top-level RFC 3339 document field.
func TimeField(name string) string {
	return "(doc->>'" + name + "')::timestamptz"
}
