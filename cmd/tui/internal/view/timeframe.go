package view

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
)

// Timeframe is a named date range relative to today.
type Timeframe string

const (
	TimeframeThisMonth Timeframe = "this-month"
	TimeframeLastMonth Timeframe = "last-month"
	TimeframeThisYear  Timeframe = "this-year"
	TimeframeAll       Timeframe = "all"
	TimeframeCustom    Timeframe = "custom"
)

func timeframeOptions() []huh.Option[Timeframe] {
	return []huh.Option[Timeframe]{
		huh.NewOption("This month", TimeframeThisMonth),
		huh.NewOption("Last month", TimeframeLastMonth),
		huh.NewOption("This year", TimeframeThisYear),
		huh.NewOption("All time", TimeframeAll),
		huh.NewOption("Custom range", TimeframeCustom),
	}
}

// Range returns the first and last day of t as seen on today. The
// result is zero for TimeframeAll and TimeframeCustom.
func (t Timeframe) Range(today civil.Date) (civil.Date, civil.Date) {
	month := calendar.MonthOf(today)

	switch t {
	case TimeframeThisMonth:
		return month.First(), month.Day(month.Days())
	case TimeframeLastMonth:
		prev := month.Prev()
		return prev.First(), prev.Day(prev.Days())
	case TimeframeThisYear:
		return civil.Date{Year: today.Year, Month: time.January, Day: 1},
			civil.Date{Year: today.Year, Month: time.December, Day: 31}
	}

	return civil.Date{}, civil.Date{}
}
