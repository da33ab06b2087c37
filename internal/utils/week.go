package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitweek/internal/constants"
)

// WeekDay is one column of a week window
type WeekDay struct {
	Date       time.Time
	Label      string // e.g. "Monday, Jun 10"
	ShortLabel string // e.g. "Mon 10"
}

// Key returns the completion key for the day
func (d WeekDay) Key() string {
	return FormatDateKey(d.Date)
}

// StartOfWeek returns midnight of the Monday on or before t. Weeks run
// Monday through Sunday.
func StartOfWeek(t time.Time) time.Time {
	offset := 1 - int(t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	return Today(AddDays(t, offset))
}

// BuildWeek returns the seven days of the week containing anchor.
func BuildWeek(anchor time.Time) []WeekDay {
	start := StartOfWeek(anchor)
	week := make([]WeekDay, constants.DaysPerWeek)
	for i := range week {
		date := AddDays(start, i)
		week[i] = WeekDay{
			Date:       date,
			Label:      date.Format(constants.DayLabelFormat),
			ShortLabel: date.Format(constants.DayShortLabelFormat),
		}
	}
	return week
}

// ShiftWeek moves an anchor date by n whole weeks (negative goes back).
func ShiftWeek(anchor time.Time, n int) time.Time {
	return AddDays(anchor, n*constants.DaysPerWeek)
}

// FormatWeekLabel renders the span of a week window, e.g.
// "Jun 10 – June 16, 2024" or "December 30 – January 5, 2024 – 2025".
func FormatWeekLabel(week []WeekDay) string {
	if len(week) == 0 {
		return ""
	}
	first := week[0].Date
	last := week[len(week)-1].Date

	startLayout := constants.MonthLongFormat
	if first.Month() == last.Month() && first.Year() == last.Year() {
		startLayout = constants.MonthShortFormat
	}
	startLabel := first.Format(startLayout)
	endLabel := last.Format(constants.MonthLongFormat)

	yearLabel := fmt.Sprintf("%d", first.Year())
	if first.Year() != last.Year() {
		yearLabel = fmt.Sprintf("%d – %d", first.Year(), last.Year())
	}

	return fmt.Sprintf("%s – %s, %s", startLabel, endLabel, yearLabel)
}
