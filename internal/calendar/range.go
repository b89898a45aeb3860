package calendar

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range")

// Range is an inclusive span of calendar days.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

func NewRange(from, to Date) (Range, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return Range{}, ErrInvalidRange
	}
	return Range{From: from, To: to}, nil
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Days lists every day of the range, in order.
func (r Range) Days() []Date {
	if r.To.Before(r.From) {
		return nil
	}
	var days []Date
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return r.From.String() + ".." + r.To.String()
}

// WeekRange returns the Monday..Sunday week containing day.
func WeekRange(day Date) Range {
	// time.Weekday starts on Sunday
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDays(-offset)
	return Range{From: monday, To: monday.AddDays(6)}
}

// MonthRange returns the first..last day of the month.
func MonthRange(year int, month time.Month) Range {
	first := NewDate(year, month, 1)
	last := NewDate(year, month+1, 1).AddDays(-1)
	return Range{From: first, To: last}
}

// MonthGrid returns the whole weeks (Monday first) covering the month, as used
// by the dashboard calendar view. Leading and trailing days belong to the
// neighbouring months.
func MonthGrid(year int, month time.Month) [][]Date {
	monthRange := MonthRange(year, month)
	start := WeekRange(monthRange.From).From
	end := WeekRange(monthRange.To).To

	var weeks [][]Date
	for weekStart := start; !weekStart.After(end); weekStart = weekStart.AddDays(7) {
		week := make([]Date, 7)
		for i := range week {
			week[i] = weekStart.AddDays(i)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
