package listing

import (
	"strconv"
	"strings"
	"time"
)

// Record is a row that exposes its columns by name. Implementations return
// string, float64, int64, time.Time or nil for a null or unknown column.
type Record interface {
	Value(column string) any
}

// Condition is one applied filter dimension.
type Condition struct {
	Kind   FilterKind
	Column string
	// Value is the Exact operand.
	Value any
	// From and To are inclusive day bounds of a DateRange.
	From, To *time.Time
	// Instant reports that Column holds timestamps.
	Instant bool
	// Min and Max are inclusive bounds of a NumberRange.
	Min, Max *float64
}

// Filter is the conjunction of its conditions and the optional search term.
type Filter struct {
	Conditions    []Condition
	Search        string
	SearchColumns []string
}

// BuildFilter reads the filters of res out of p. Absent, empty and
// unparseable parameters leave their dimension unfiltered.
func BuildFilter(res Resource, p Params) Filter {
	var f Filter
	for _, field := range res.Filters {
		switch field.Kind {
		case Exact:
			if v, ok := p.Get(field.Param); ok {
				f.Conditions = append(f.Conditions, Condition{Kind: Exact, Column: field.Column, Value: v})
			}
		case DateRange:
			c := Condition{Kind: DateRange, Column: field.Column, Instant: field.Instant}
			if t, ok := p.Date(field.FromParam); ok {
				c.From = &t
			}
			if t, ok := p.Date(field.ToParam); ok {
				c.To = &t
			}
			if c.From != nil || c.To != nil {
				f.Conditions = append(f.Conditions, c)
			}
		case NumberRange:
			c := Condition{Kind: NumberRange, Column: field.Column}
			if n, ok := p.Float(field.FromParam); ok {
				c.Min = &n
			}
			if n, ok := p.Float(field.ToParam); ok {
				c.Max = &n
			}
			if c.Min != nil || c.Max != nil {
				f.Conditions = append(f.Conditions, c)
			}
		}
	}

	if term, ok := p.Get("search"); ok && len(res.SearchColumns) > 0 {
		f.Search = term
		f.SearchColumns = res.SearchColumns
	}
	return f
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0 && f.Search == ""
}

// Match evaluates the filter against one record. A null column never
// satisfies an applied condition.
func (f Filter) Match(r Record) bool {
	for _, c := range f.Conditions {
		if !c.match(r.Value(c.Column)) {
			return false
		}
	}
	if f.Search == "" {
		return true
	}

	term := strings.ToLower(f.Search)
	for _, col := range f.SearchColumns {
		s, ok := r.Value(col).(string)
		if ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func (c Condition) match(v any) bool {
	if v == nil {
		return false
	}
	switch c.Kind {
	case Exact:
		return text(v) == text(c.Value)
	case DateRange:
		t, ok := v.(time.Time)
		if !ok {
			return false
		}
		d := day(t)
		if c.From != nil && d < day(*c.From) {
			return false
		}
		if c.To != nil && d > day(*c.To) {
			return false
		}
		return true
	case NumberRange:
		n, ok := number(v)
		if !ok {
			return false
		}
		if c.Min != nil && n < *c.Min {
			return false
		}
		if c.Max != nil && n > *c.Max {
			return false
		}
		return true
	}
	return false
}

// Apply returns the records matching f, preserving order.
func Apply[T Record](f Filter, records []T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func day(t time.Time) int {
	y, m, d := t.UTC().Date()
	return y*10000 + int(m)*100 + d
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	}
	return ""
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}
