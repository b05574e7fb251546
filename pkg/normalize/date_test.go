package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2024-01-01", "2024-01-01T00:00:00.000Z", true},
		{"2024-01-01T10:30:00Z", "2024-01-01T10:30:00.000Z", true},
		{"2024-01-01T10:30:00+01:00", "2024-01-01T09:30:00.000Z", true},
		{"2024-03-05 08:15:00", "2024-03-05T08:15:00.000Z", true},
		{"  2024-01-01  ", "2024-01-01T00:00:00.000Z", true},
		{"October 7, 2024", "2024-10-07T00:00:00.000Z", true},
		{"2024/01/15", "2024-01-15T00:00:00.000Z", true},
		{"", "", false},
		{"??", "", false},
		{"-", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFlexibleDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ok for %q", tt.in)
		assert.Equal(t, tt.want, got, "value for %q", tt.in)
	}
}

func TestCurrentDateAsUTCMidnight(t *testing.T) {
	oldNowFunc := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 10, 11, 23, 58, 35, 0, time.UTC) }
	defer func() { nowFunc = oldNowFunc }()

	assert.Equal(t, "2025-10-11T00:00:00.000Z", CurrentDateAsUTCMidnight())
}
