package models

import (
	"fmt"
	"time"
)

// SlotFrequency distinguishes weekly recurring slots from single-occurrence ones.
type SlotFrequency string

const (
	SlotFrequencyWeekly SlotFrequency = "weekly"
	SlotFrequencySingle SlotFrequency = "single"
)

const minutesPerDay = 24 * 60

// TimeSlot is one schedulable interval of a teaching unit. Weekly slots carry
// a day of week, single-occurrence slots carry a calendar date; never both.
type TimeSlot struct {
	ID        string        `db:"id" json:"id"`
	UnitID    string        `db:"unit_id" json:"unit_id"`
	Type      string        `db:"type" json:"type"`
	Frequency SlotFrequency `db:"frequency" json:"frequency"`
	Day       string        `db:"day" json:"day,omitempty"`
	Date      string        `db:"date" json:"date,omitempty"`
	TimeFrom  int           `db:"time_from" json:"time_from"`
	TimeTo    int           `db:"time_to" json:"time_to"`
	Location  string        `db:"location" json:"location"`
}

// Validate checks the slot invariants.
func (s TimeSlot) Validate() error {
	if s.TimeFrom < 0 || s.TimeTo > minutesPerDay || s.TimeFrom >= s.TimeTo {
		return fmt.Errorf("slot %s: invalid time range %d-%d", s.ID, s.TimeFrom, s.TimeTo)
	}
	if (s.Day == "") == (s.Date == "") {
		return fmt.Errorf("slot %s: exactly one of day or date must be set", s.ID)
	}
	if s.Day != "" && DayIndex(s.Day) == 0 {
		return fmt.Errorf("slot %s: unknown day %q", s.ID, s.Day)
	}
	if s.Date != "" && WeekdayOf(s.Date) == "" {
		return fmt.Errorf("slot %s: invalid date %q", s.ID, s.Date)
	}
	return nil
}

// EffectiveDay returns the slot's day of week, deriving it from the calendar
// date for single-occurrence slots.
func (s TimeSlot) EffectiveDay() string {
	if s.Day != "" {
		return s.Day
	}
	return WeekdayOf(s.Date)
}

// Duration returns the slot length in minutes.
func (s TimeSlot) Duration() int {
	return s.TimeTo - s.TimeFrom
}

// SlotTime projects the slot onto the shared collision shape.
func (s TimeSlot) SlotTime() SlotTime {
	return SlotTime{Day: s.Day, Date: s.Date, TimeFrom: s.TimeFrom, TimeTo: s.TimeTo}
}

// SlotTime is the minimal shape the collision predicate operates on. Both
// catalog slots and selected units project onto it.
type SlotTime struct {
	Day      string
	Date     string
	TimeFrom int
	TimeTo   int
}

// EffectiveDay resolves the day of week, deriving from the date when needed.
func (t SlotTime) EffectiveDay() string {
	if t.Day != "" {
		return t.Day
	}
	return WeekdayOf(t.Date)
}

// TimesOverlap implements the half-open interval test: intervals that merely
// touch (a ends exactly when b starts) do not overlap.
func TimesOverlap(aFrom, aTo, bFrom, bTo int) bool {
	return aFrom < bTo && bFrom < aTo
}

// Collides reports whether two slot times occupy the same moment. Both must
// resolve to the same day of week, and when both are date-bound the dates must
// match as well: two dated slots on different Mondays do not collide.
func Collides(a, b SlotTime) bool {
	dayA := a.EffectiveDay()
	dayB := b.EffectiveDay()
	if dayA == "" || dayB == "" || dayA != dayB {
		return false
	}
	if a.Date != "" && b.Date != "" && a.Date != b.Date {
		return false
	}
	return TimesOverlap(a.TimeFrom, a.TimeTo, b.TimeFrom, b.TimeTo)
}

var dayIndexMap = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

var dayNames = []string{"", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// DayIndex maps a day name to its ISO weekday number, 0 when unknown.
func DayIndex(name string) int {
	return dayIndexMap[name]
}

// DayName maps an ISO weekday number back to its name.
func DayName(index int) string {
	if index < 1 || index > 7 {
		return ""
	}
	return dayNames[index]
}

// WeekdayOf derives the day name from a YYYY-MM-DD date string. The
// computation is timezone-naive: the date is interpreted as-is.
func WeekdayOf(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	index := int(t.Weekday())
	if index == 0 {
		index = 7
	}
	return DayName(index)
}

// FormatMinutes renders minutes from midnight as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
