package order

import (
	"strings"
	"time"
)

// DateLayout is the display format for order dates.
const DateLayout = "02-01-2006"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate parses the date formats the order backend emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as DD-MM-YYYY. Empty input renders as "-" and input
// that is not a recognised date is returned unchanged. Timestamps keep the
// calendar date they were written with.
func FormatDate(s string) string {
	if s == "" {
		return "-"
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DateLayout)
}
