package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	tests := []string{
		"2024-03-07",
		"07/03/2024",
		"7/3/2024",
		"07.03.2024",
		"07-03-2024",
		"2024/03/07",
		"07/03/24",
		"  07/03/2024  ",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			require.NoError(t, err)
			assert.True(t, expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_WithTime(t *testing.T) {
	got, err := ParseDate("2024-03-07T15:04:05-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 7, 18, 4, 5, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	got, err = ParseDate("2024-03-07 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "31/02/2024", "not a date", "2024-13-01"} {
		_, err := ParseDate(input)
		assert.Error(t, err, input)
	}
}

func TestMonthHelpers(t *testing.T) {
	d := time.Date(2024, 3, 17, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03", MonthKey(d))
	assert.Equal(t, "2024-03-17", ToISODate(d))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(d))
	assert.Equal(t, "a b", CleanDateString("  a \t b "))
}
