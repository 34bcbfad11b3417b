package derived

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric turns any loosely typed input into an integer amount.
// Strings follow parseInt rules: surrounding space is ignored and the leading
// signed digit run is used, so "12abc" is 12 and "abc" is 0. Floats truncate
// toward zero. Anything unrecognised is 0. It never panics.
func CoerceNumeric(v interface{}) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return clampUint(uint64(n))
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return clampUint(n)
	case float32:
		return truncFloat(float64(n))
	case float64:
		return truncFloat(n)
	case bool:
		return 0
	case string:
		return parseIntPrefix(n)
	case *string:
		if n == nil {
			return 0
		}
		return parseIntPrefix(*n)
	case *int64:
		if n == nil {
			return 0
		}
		return *n
	case json.Number:
		return parseIntPrefix(n.String())
	case Number:
		return int64(n)
	case *Number:
		if n == nil {
			return 0
		}
		return int64(*n)
	default:
		return 0
	}
}

// CoerceString returns v as a string, or "" when it is absent or not textual.
func CoerceString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case *string:
		if s == nil {
			return ""
		}
		return *s
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

func clampUint(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func truncFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

func parseIntPrefix(raw string) int64 {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Out of range: saturate like the sign says.
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

// Number is an integer amount that accepts any JSON value. Numbers, numeric
// strings and partial form input are coerced; everything else becomes 0.
type Number int64

// Int64 returns the amount.
func (n Number) Int64() int64 { return int64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = 0
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		*n = 0
		return nil
	}
	if num, ok := raw.(json.Number); ok {
		if i, err := num.Int64(); err == nil {
			*n = Number(i)
			return nil
		}
		if f, err := num.Float64(); err == nil {
			*n = Number(truncFloat(f))
			return nil
		}
	}
	*n = Number(CoerceNumeric(raw))
	return nil
}
