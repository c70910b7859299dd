package listing

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc or desc in any case.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

type Sort struct {
	Column    string
	Direction Direction
}

// ResolveSort validates a requested order against the allow-list of res.
// An unknown column or direction yields the resource default. An empty
// column keeps a valid direction on the default column and an empty
// direction on a valid column takes the default direction.
func ResolveSort(res Resource, column, direction string) Sort {
	column = strings.TrimSpace(column)
	direction = strings.TrimSpace(direction)

	dir, dirOK := ParseDirection(direction)
	if direction != "" && !dirOK {
		return res.DefaultSort
	}
	if column != "" && !res.IsSortable(column) {
		return res.DefaultSort
	}

	out := res.DefaultSort
	if column != "" {
		out.Column = column
	}
	if dirOK {
		out.Direction = dir
	}
	return out
}

// SQL renders the direction keyword.
func (d Direction) SQL() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// SortRecords orders records in place by s, breaking ties on idColumn in the
// same direction. Nulls order after every value ascending.
func SortRecords[T Record](records []T, s Sort, idColumn string) {
	sort.SliceStable(records, func(i, j int) bool {
		c := compare(records[i].Value(s.Column), records[j].Value(s.Column))
		if c == 0 {
			c = compare(records[i].Value(idColumn), records[j].Value(idColumn))
		}
		if s.Direction == Asc {
			return c < 0
		}
		return c > 0
	})
}

// compare orders two column values. nil is greater than any value.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(text(a), text(b))
}
