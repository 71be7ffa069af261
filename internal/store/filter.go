package store

import (
	"fmt"
	"regexp"
)

// Op is a comparison operator in a filter condition.
type Op string

const (
	Eq  Op = "eq"
	Gte Op = "gte"
	Lte Op = "lte"
)

// Condition compares a stored field against a value.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Condition

// Where starts a filter with an equality condition.
func Where(field string, value any) Filter {
	return Filter{{Field: field, Op: Eq, Value: value}}
}

// And appends an equality condition.
func (f Filter) And(field string, value any) Filter {
	return append(f, Condition{Field: field, Op: Eq, Value: value})
}

// Between appends an inclusive range on field.
func (f Filter) Between(field string, from, to any) Filter {
	return append(f,
		Condition{Field: field, Op: Gte, Value: from},
		Condition{Field: field, Op: Lte, Value: to},
	)
}

var fieldName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate rejects field names that are not plain snake_case identifiers and
// unknown operators. Field names are interpolated into SQL by gormstore.
func (f Filter) Validate() error {
	for _, c := range f {
		if !fieldName.MatchString(c.Field) {
			return fmt.Errorf("store: invalid filter field %q", c.Field)
		}
		switch c.Op {
		case Eq, Gte, Lte:
		default:
			return fmt.Errorf("store: invalid filter operator %q", c.Op)
		}
	}
	return nil
}
