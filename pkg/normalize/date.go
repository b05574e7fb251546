package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout is the canonical instant format used for createdDate.
const ISOLayout = "2006-01-02T15:04:05.000Z"

var nowFunc = time.Now

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseFlexibleDate reads a date cell. ISO-8601 forms are tried first, then a
// free-form parse. Values without a zone are taken as UTC.
func ParseFlexibleDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return FormatInstant(t), true
		}
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", false
	}
	return FormatInstant(t), true
}

// FormatInstant renders t in the canonical createdDate format.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// CurrentDateAsUTCMidnight is the default createdDate for rows whose date
// could not be read.
func CurrentDateAsUTCMidnight() string {
	now := nowFunc().UTC()
	return FormatInstant(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}
