package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestHeuristicCalendar(t *testing.T) {
	cal := NewHeuristicCalendar()
	ctx := context.Background()

	cases := []struct {
		date string
		open bool
		name string
	}{
		{"2026-06-17", true, "regular Wednesday"},
		{"2026-06-13", false, "Saturday"},
		{"2026-06-14", false, "Sunday"},
		{"2026-07-03", false, "Independence Day observed (July 4 is a Saturday)"},
		{"2026-07-06", true, "Monday after the holiday weekend"},
		{"2026-01-19", false, "MLK Day, third Monday of January"},
		{"2026-05-25", false, "Memorial Day, last Monday of May"},
		{"2026-11-26", false, "Thanksgiving, fourth Thursday of November"},
		{"2026-12-25", false, "Christmas"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			open, err := cal.IsTradingDay(ctx, calDate(t, tc.date))
			require.NoError(t, err)
			assert.Equal(t, tc.open, open)
		})
	}
}
