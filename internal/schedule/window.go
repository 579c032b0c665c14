package schedule

import (
	"fmt"
	"time"

	apperrors "github.com/campushub/campushub-api/pkg/errors"
)

// TimeOfDay is a clock time with minute resolution, stored as minutes
// since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a "15:04" formatted clock time
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, apperrors.InvalidInputError("time", fmt.Sprintf("'%s' is not a valid HH:MM time", s))
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String formats the time as "15:04"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// OnDate materializes the clock time onto a calendar date
func (t TimeOfDay) OnDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Window is a single time range, either on a concrete calendar date or
// recurring weekly on a weekday. A zero Date means the window recurs.
type Window struct {
	Date    time.Time    // truncated to midnight; zero for recurring windows
	Weekday time.Weekday // meaningful only when recurring (Sunday = 0)
	Start   TimeOfDay
	End     TimeOfDay
}

// NewDateWindow builds a one-off window on a concrete date
func NewDateWindow(date time.Time, start, end TimeOfDay) Window {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Window{Date: day, Weekday: day.Weekday(), Start: start, End: end}
}

// NewRecurringWindow builds a weekly recurring window on a weekday
func NewRecurringWindow(weekday time.Weekday, start, end TimeOfDay) Window {
	return Window{Weekday: weekday, Start: start, End: end}
}

// Recurring reports whether the window repeats weekly rather than being
// bound to one date
func (w Window) Recurring() bool {
	return w.Date.IsZero()
}

// Validate rejects zero/negative-duration windows and out-of-range weekdays
// before any conflict comparison happens
func (w Window) Validate() error {
	if w.End <= w.Start {
		return apperrors.InvalidInputError("window", fmt.Sprintf("end time %s must be after start time %s", w.End, w.Start))
	}
	if w.Recurring() && (w.Weekday < time.Sunday || w.Weekday > time.Saturday) {
		return apperrors.InvalidInputError("day_of_week", fmt.Sprintf("%d is outside [0,6]", int(w.Weekday)))
	}
	return nil
}

// weekday returns the effective weekday of the window's occurrence
func (w Window) weekday() time.Weekday {
	if w.Recurring() {
		return w.Weekday
	}
	return w.Date.Weekday()
}

// SameOccurrence reports whether two windows fall on the same calendar
// occurrence. Two one-off windows match on date; two recurring windows match
// on weekday; a recurring window materializes onto a one-off window's weekday.
func (w Window) SameOccurrence(other Window) bool {
	if !w.Recurring() && !other.Recurring() {
		return w.Date.Equal(other.Date)
	}
	return w.weekday() == other.weekday()
}

// Overlaps applies half-open interval semantics: windows that merely touch
// at a boundary do not overlap
func (w Window) Overlaps(other Window) bool {
	if !w.SameOccurrence(other) {
		return false
	}
	return w.Start < other.End && other.Start < w.End
}

// String renders the window for conflict messages, e.g.
// "2025-11-02 14:00-15:00" or "every Monday 09:00-10:00"
func (w Window) String() string {
	if w.Recurring() {
		return fmt.Sprintf("every %s %s-%s", w.Weekday, w.Start, w.End)
	}
	return fmt.Sprintf("%s %s-%s", w.Date.Format("2006-01-02"), w.Start, w.End)
}
