package validation

import (
	"errors"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ErrInvalidDate is returned by ParseDate for input in none of the accepted layouts.
var ErrInvalidDate = errors.New(MsgInvalidDate)

// ParseDate parses an RFC 3339 timestamp, a local "YYYY-MM-DDTHH:MM[:SS]" value or a
// plain "YYYY-MM-DD" date. Values without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
