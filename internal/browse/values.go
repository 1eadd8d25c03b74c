package browse

import (
	"fmt"
	"strings"
	"time"
)

// stringify renders a cell value for search matching.
// Dates use the same day format the tables display.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("Jan 2 2006")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// compareValues orders two non-null cell values of the same column.
// Returns <0, 0, or >0. Mixed or unknown types fall back to their printed
// form so sorting stays total.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
		}
	case int:
		if bv, ok := b.(int); ok {
			return compareOrdered(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
