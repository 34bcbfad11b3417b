package models

// Predicate is a single column equality used by repository List calls.
// A zero Predicate lists everything.
type Predicate struct {
	Field string
	Value interface{}
}

// IsZero reports whether no predicate is set.
func (p Predicate) IsZero() bool {
	return p.Field == ""
}

// Eq builds a predicate.
func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Value: value}
}
