package report

import (
	"strings"
	"time"
)

// Placeholder is shown in table cells whose value is missing.
const Placeholder = "-"

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "02/01/2006"}

// FormatDate renders s as dd/mm/yyyy. ISO dates, RFC 3339 timestamps and
// already formatted dates are accepted; anything else is returned trimmed.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

// FormatTime renders s as hh:mm when it parses as a clock time.
func FormatTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05", "15h04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return s
}

// FormatDateTime joins the formatted date and time with sep. Either part may
// be empty, in which case the other is returned alone.
func FormatDateTime(date, clock, sep string) string {
	d, c := FormatDate(date), FormatTime(clock)
	switch {
	case d == "":
		return c
	case c == "":
		return d
	}
	return d + sep + c
}

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Truncate keeps the first n runes of s. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// firstNonBlank returns the first argument that is not blank.
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
