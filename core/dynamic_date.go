package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts maps the format keyword of a dynamic date to its Go layout.
var dateLayouts = map[string]string{
	"day":      "2006-01-02",
	"month":    "2006-01",
	"year":     "2006",
	"datetime": "2006-01-02 15:04:05",
	"compact":  "20060102",
	"display":  "02.01.2006",
}

// ParseDynamicDate resolves an expression of the form "$date:format:unit:offset"
// against baseTime. "$date:compact:day:-1" is yesterday as "20060102".
// Other strings are returned unchanged.
func ParseDynamicDate(expression string, baseTime time.Time) (string, error) {
	if !strings.HasPrefix(expression, "$date:") {
		return expression, nil
	}

	parts := strings.Split(expression, ":")
	if len(parts) != 4 {
		return "", fmt.Errorf("invalid dynamic date format: %s", expression)
	}
	format, unit := parts[1], parts[2]

	offset, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", fmt.Errorf("invalid offset in dynamic date: %s", expression)
	}

	target := baseTime
	switch unit {
	case "day":
		target = target.AddDate(0, 0, offset)
	case "month":
		target = shiftMonths(target, offset)
	case "year":
		target = shiftMonths(target, 12*offset)
	default:
		return "", fmt.Errorf("unsupported unit in dynamic date: %s", unit)
	}

	layout, ok := dateLayouts[format]
	if !ok {
		return "", fmt.Errorf("unsupported format in dynamic date: %s", format)
	}
	return target.Format(layout), nil
}

// shiftMonths moves t by n calendar months. The day is clamped to the last
// day of the target month, so March 31 minus one month is February 29 (or 28).
func shiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
