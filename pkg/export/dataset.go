package export

import (
	"fmt"
	"strconv"
	"time"
)

// Dataset defines tabular export content. Each row holds one value per header.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// AddRow appends a row of cell values.
func (d *Dataset) AddRow(values ...interface{}) {
	d.Rows = append(d.Rows, values)
}

func (d Dataset) validate(kind string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", kind)
	}
	for i, row := range d.Rows {
		if len(row) > len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells for %d headers", kind, i+1, len(row), len(d.Headers))
		}
	}
	return nil
}

// cellText renders a value for text based formats.
func cellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
