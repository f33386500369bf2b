package dto

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DateLayout is the calendar-date format used by profile fields.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDate, "%s must be YYYY-MM-DD", field)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
