package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddBusinessDays(t *testing.T) {
	type testCase struct {
		name     string
		start    time.Time
		days     int
		expected time.Time
	}
	tests := []testCase{
		{
			name:     "monday plus five lands on next monday",
			start:    time.Date(2023, 10, 2, 14, 30, 0, 0, time.UTC),
			days:     5,
			expected: time.Date(2023, 10, 9, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "friday plus one skips the weekend",
			start:    time.Date(2023, 10, 6, 9, 0, 0, 0, time.UTC),
			days:     1,
			expected: time.Date(2023, 10, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "saturday plus one is monday",
			start:    time.Date(2023, 10, 7, 9, 0, 0, 0, time.UTC),
			days:     1,
			expected: time.Date(2023, 10, 9, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero days",
			start:    time.Date(2023, 10, 7, 9, 0, 0, 0, time.UTC),
			days:     0,
			expected: time.Date(2023, 10, 7, 9, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AddBusinessDays(tc.start, tc.days))
		})
	}
}

func TestFreeze(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	restore := Freeze(at)
	assert.Equal(t, at, Now())
	restore()
	assert.NotEqual(t, at, Now())
}
