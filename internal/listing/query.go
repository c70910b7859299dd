package listing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Query is a fully resolved listing request.
type Query struct {
	Resource Resource
	Filter   Filter
	Sort     Sort
	Page     PageRequest
}

// NewQuery resolves filter, sort and page of res from p. It never fails.
func NewQuery(res Resource, p Params) Query {
	column, _ := p.Get("sort_by")
	direction, _ := p.Get("sort_order")
	return Query{
		Resource: res,
		Filter:   BuildFilter(res, p),
		Sort:     ResolveSort(res, column, direction),
		Page:     ResolvePage(res, p),
	}
}

// Scope pre-applies an equality condition, e.g. the owner of the rows.
func (q Query) Scope(column string, value any) Query {
	conds := make([]Condition, 0, len(q.Filter.Conditions)+1)
	conds = append(conds, Condition{Kind: Exact, Column: column, Value: value})
	conds = append(conds, q.Filter.Conditions...)
	q.Filter.Conditions = conds
	return q
}

// Run executes the query over an in-memory collection.
func Run[T Record](q Query, records []T) Page[T] {
	matched := Apply(q.Filter, records)
	SortRecords(matched, q.Sort, q.Resource.IDColumn)
	return Paginate(matched, q.Page)
}

// Key is a canonical string for q, usable as a cache key.
func (q Query) Key() string {
	parts := make([]string, 0, len(q.Filter.Conditions)+4)
	for _, c := range q.Filter.Conditions {
		parts = append(parts, c.key())
	}
	sort.Strings(parts)

	var b strings.Builder
	b.WriteString(q.Resource.Name)
	for _, p := range parts {
		b.WriteString("|")
		b.WriteString(p)
	}
	if q.Filter.Search != "" {
		fmt.Fprintf(&b, "|search=%s", strings.ToLower(q.Filter.Search))
	}
	fmt.Fprintf(&b, "|sort=%s:%s|page=%d:%d", q.Sort.Column, q.Sort.Direction, q.Page.Page, q.Page.PerPage)
	return b.String()
}

func (c Condition) key() string {
	switch c.Kind {
	case DateRange:
		return fmt.Sprintf("%s~%s..%s", c.Column, dateKey(c.From), dateKey(c.To))
	case NumberRange:
		return fmt.Sprintf("%s#%s..%s", c.Column, floatKey(c.Min), floatKey(c.Max))
	}
	return c.Column + "=" + text(c.Value)
}

func dateKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func floatKey(f *float64) string {
	if f == nil {
		return ""
	}
	return text(*f)
}
