package domain

import "time"

const dayLayout = "2006-01-02"

// Day is a calendar date in ISO YYYY-MM-DD form, no time component. The
// server's local day is authoritative for attendance marking.
type Day string

// DayOf truncates t to its calendar date.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Valid reports whether d parses as a calendar date.
func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

func (d Day) String() string { return string(d) }

// MarkResult is the outcome of an attendance mark.
type MarkResult int

const (
	// MarkCreated means a new attendance entry was recorded.
	MarkCreated MarkResult = iota
	// MarkAlreadyPresent means the day was already recorded; nothing changed.
	MarkAlreadyPresent
)
