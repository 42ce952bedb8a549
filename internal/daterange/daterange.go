package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/motionmcp/internal/motion"
)

// Period names a relative calendar range.
type Period string

const (
	Today     Period = "today"
	Tomorrow  Period = "tomorrow"
	ThisWeek  Period = "thisWeek"
	NextWeek  Period = "nextWeek"
	ThisMonth Period = "thisMonth"
	NextMonth Period = "nextMonth"
)

// Periods lists every supported period.
var Periods = []Period{Today, Tomorrow, ThisWeek, NextWeek, ThisMonth, NextMonth}

// ParsePeriod matches s against the known periods, ignoring case.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid date range %q, must be one of: today, tomorrow, thisWeek, nextWeek, thisMonth, nextMonth", s)
}

// Range is an inclusive span of calendar dates.
type Range struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within r, bounds included.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Key renders r as "<start>_<end>".
func (r Range) Key() string {
	return r.Start.String() + "_" + r.End.String()
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// RangeFor returns the range p denotes relative to now, evaluated in now's
// location. Weeks run Monday to Sunday.
func RangeFor(p Period, now time.Time) (Range, error) {
	today := DateOf(now)
	switch p {
	case Today:
		return Range{Start: today, End: today}, nil
	case Tomorrow:
		d := today.AddDays(1)
		return Range{Start: d, End: d}, nil
	case ThisWeek:
		start := weekStart(today)
		return Range{Start: start, End: start.AddDays(6)}, nil
	case NextWeek:
		start := weekStart(today).AddDays(7)
		return Range{Start: start, End: start.AddDays(6)}, nil
	case ThisMonth:
		return monthRange(today.Year, today.Month), nil
	case NextMonth:
		return monthRange(today.Year, today.Month+1), nil
	default:
		return Range{}, fmt.Errorf("unknown period %q", p)
	}
}

// weekStart returns the Monday on or before d.
func weekStart(d Date) Date {
	wd := d.In(time.UTC).Weekday()
	offset := (int(wd) + 6) % 7
	return d.AddDays(-offset)
}

// monthRange spans month m of year y; m may overflow into the next year.
func monthRange(y int, m time.Month) Range {
	first := DateOf(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	last := DateOf(time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC))
	return Range{Start: first, End: last}
}

// MatchesRange reports whether task falls within r. Chunks decide when the
// task has any; otherwise scheduledStart, otherwise dueDate. Timestamps
// are converted to loc before taking their date; dueDate is read as the
// literal date it names.
func MatchesRange(task motion.Task, r Range, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}

	if len(task.Chunks) > 0 {
		for _, chunk := range task.Chunks {
			if d, ok := timestampDate(chunk.ScheduledStart, loc); ok && r.Contains(d) {
				return true
			}
		}
		return false
	}

	if task.ScheduledStart != "" {
		d, ok := timestampDate(task.ScheduledStart, loc)
		return ok && r.Contains(d)
	}

	if task.DueDate != "" {
		d, ok := literalDate(task.DueDate)
		return ok && r.Contains(d)
	}

	return false
}

// Filter returns the tasks matching r, in input order. The result is never nil.
func Filter(tasks []motion.Task, r Range, loc *time.Location) []motion.Task {
	out := make([]motion.Task, 0, len(tasks))
	for _, task := range tasks {
		if MatchesRange(task, r, loc) {
			out = append(out, task)
		}
	}
	return out
}
