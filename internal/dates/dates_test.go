package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		want        time.Time
	}{
		{
			name:  "valid date",
			input: "01/15/2020",
			want:  time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "end of day marker stripped",
			input: "09/30/1997_24:00",
			want:  time.Date(1997, 9, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  12/31/2015  ",
			want:  time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "two parts only",
			input:       "01/2020",
			expectError: true,
		},
		{
			name:        "non-numeric part",
			input:       "Jan/15/2020",
			expectError: true,
		},
		{
			name:        "month out of range",
			input:       "13/15/2020",
			expectError: true,
		},
		{
			name:        "day out of range",
			input:       "01/32/2020",
			expectError: true,
		},
		{
			name:        "year out of range",
			input:       "01/15/1750",
			expectError: true,
		},
		{
			name:        "impossible calendar date",
			input:       "02/30/2020",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseNamed_ErrorMessagesNameTheParameter(t *testing.T) {
	_, err := ParseNamed("bogus", "start_date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestCleanTimestamp(t *testing.T) {
	assert.Equal(t, "09/30/1997", CleanTimestamp("09/30/1997_24:00"))
	assert.Equal(t, "09/30/1997", CleanTimestamp("09/30/1997"))
	assert.Equal(t, "09/30/1997", CleanTimestamp(" 09/30/1997_24:00 "))
}

func TestWaterYear(t *testing.T) {
	assert.Equal(t, 2020, WaterYear(time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2019, WaterYear(time.Date(2019, 9, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2020, WaterYear(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(a, b))
	assert.Equal(t, -30, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
