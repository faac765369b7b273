package calendar_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
)

func TestToday_IgnoresLocation(t *testing.T) {
	// 23:30 on Aug 1st in UTC-12 is already Aug 2nd in UTC.
	loc := time.FixedZone("UTC-12", -12*60*60)
	now := time.Date(2025, 8, 1, 23, 30, 0, 0, loc)

	assert.Equal(t, civil.Date{Year: 2025, Month: time.August, Day: 2}, calendar.Today(now))
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2025-08-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), calendar.Midnight(d))

	_, err = calendar.ParseDate("02/08/2025")
	assert.Error(t, err)
}

func TestMonth_Navigation(t *testing.T) {
	dec := calendar.Month{Year: 2023, Month: time.December}
	jan := calendar.Month{Year: 2024, Month: time.January}

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, dec, jan.Prev())
	assert.True(t, dec.Before(jan))
	assert.True(t, jan.After(dec))
	assert.False(t, jan.Before(jan))
	assert.Equal(t, 0, jan.Index())
	assert.Equal(t, 11, dec.Index())
	assert.Equal(t, "01/2024", jan.Label())
	assert.Equal(t, "2024-01", jan.String())
}

func TestMonth_Day(t *testing.T) {
	tests := []struct {
		name  string
		month calendar.Month
		day   int
		want  civil.Date
	}{
		{
			name:  "Exists",
			month: calendar.Month{Year: 2024, Month: time.March},
			day:   15,
			want:  civil.Date{Year: 2024, Month: time.March, Day: 15},
		},
		{
			name:  "LeapFebruary",
			month: calendar.Month{Year: 2024, Month: time.February},
			day:   31,
			want:  civil.Date{Year: 2024, Month: time.February, Day: 29},
		},
		{
			name:  "February",
			month: calendar.Month{Year: 2023, Month: time.February},
			day:   30,
			want:  civil.Date{Year: 2023, Month: time.February, Day: 28},
		},
		{
			name:  "ThirtyDayMonth",
			month: calendar.Month{Year: 2024, Month: time.April},
			day:   31,
			want:  civil.Date{Year: 2024, Month: time.April, Day: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.month.Day(tt.day))
		})
	}
}

func TestTrailing(t *testing.T) {
	got := calendar.Trailing(calendar.Month{Year: 2024, Month: time.March}, 6)
	require.Len(t, got, 6)

	assert.Equal(t, calendar.Month{Year: 2023, Month: time.October}, got[0])
	assert.Equal(t, calendar.Month{Year: 2024, Month: time.March}, got[5])
	assert.Nil(t, calendar.Trailing(calendar.Month{Year: 2024, Month: time.March}, 0))
}
