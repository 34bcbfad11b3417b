package derived

import "strings"

// NameValue is one bucket of a count distribution.
type NameValue struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// NameAmount is one bucket of a summed distribution.
type NameAmount struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// GroupCountBy tallies records by key and returns one bucket per distinct key
// in the order keys were first seen. Output is never sorted.
func GroupCountBy[T any](records []T, key func(T) string) []NameValue {
	index := make(map[string]int)
	out := make([]NameValue, 0)
	for _, r := range records {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i].Value++
			continue
		}
		index[k] = len(out)
		out = append(out, NameValue{Name: k, Key: k, Value: 1})
	}
	return out
}

// GroupSumBy sums value(r) per key in first-seen order.
func GroupSumBy[T any](records []T, key func(T) string, value func(T) int64) []NameAmount {
	index := make(map[string]int)
	sums := make([]int64, 0)
	names := make([]string, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(names)
			index[k] = i
			names = append(names, k)
			sums = append(sums, 0)
		}
		sums[i] += value(r)
	}
	out := make([]NameAmount, len(names))
	for i, name := range names {
		out[i] = NameAmount{Name: name, Value: float64(sums[i])}
	}
	return out
}

// FilterRecords returns the records matching keep, preserving their order.
// A nil predicate keeps everything.
func FilterRecords[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesSearch reports whether query is a case-insensitive substring of any
// field. An empty query matches everything.
func MatchesSearch(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// EqualsOrAll is the filter idiom of the dashboard selects: "" and "all" match anything.
func EqualsOrAll(want, got string) bool {
	return want == "" || want == "all" || want == got
}
