package listing

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where renders the filter as a PostgreSQL WHERE clause with positional
// arguments starting at $1. It returns an empty clause for an empty filter.
// Column names come from the static resource tables only.
func (q Query) Where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, c := range q.Filter.Conditions {
		switch c.Kind {
		case Exact:
			clauses = append(clauses, fmt.Sprintf("%s = %s", c.Column, next(c.Value)))
		case DateRange:
			col := c.Column + "::date"
			if c.Instant {
				col = fmt.Sprintf("(%s AT TIME ZONE 'UTC')::date", c.Column)
			}
			if c.From != nil {
				clauses = append(clauses, fmt.Sprintf("%s >= %s::date", col, next(c.From.UTC().Format("2006-01-02"))))
			}
			if c.To != nil {
				clauses = append(clauses, fmt.Sprintf("%s <= %s::date", col, next(c.To.UTC().Format("2006-01-02"))))
			}
		case NumberRange:
			if c.Min != nil {
				clauses = append(clauses, fmt.Sprintf("%s >= %s", c.Column, next(*c.Min)))
			}
			if c.Max != nil {
				clauses = append(clauses, fmt.Sprintf("%s <= %s", c.Column, next(*c.Max)))
			}
		}
	}

	if q.Filter.Search != "" && len(q.Filter.SearchColumns) > 0 {
		ph := next("%" + likeEscaper.Replace(q.Filter.Search) + "%")
		ors := make([]string, len(q.Filter.SearchColumns))
		for i, col := range q.Filter.SearchColumns {
			ors[i] = fmt.Sprintf("%s ILIKE %s", col, ph)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// OrderBy renders the resolved sort with the id tie-breaker.
func (q Query) OrderBy() string {
	dir := q.Sort.Direction.SQL()
	id := q.Resource.IDColumn
	if id == "" || id == q.Sort.Column {
		return fmt.Sprintf("ORDER BY %s %s", q.Sort.Column, dir)
	}
	return fmt.Sprintf("ORDER BY %s %s, %s %s", q.Sort.Column, dir, id, dir)
}

// SelectSQL builds the page query and the matching count query. Both share
// the returned args; the page query appends LIMIT and OFFSET arguments.
func (q Query) SelectSQL(columns string) (selectSQL string, countSQL string, selectArgs []any, countArgs []any) {
	where, args := q.Where()

	countSQL = strings.TrimSpace(fmt.Sprintf("SELECT COUNT(*) FROM %s %s", q.Resource.Table, where))

	n := len(args)
	selectSQL = strings.Join(strings.Fields(fmt.Sprintf(
		"SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d",
		columns, q.Resource.Table, where, q.OrderBy(), n+1, n+2,
	)), " ")

	selectArgs = append(append([]any{}, args...), q.Page.PerPage, q.Page.Offset())
	return selectSQL, countSQL, selectArgs, args
}
