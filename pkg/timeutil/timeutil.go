// Package timeutil provides the time arithmetic used by scheduling:
// "HH:MM" clock strings measured in minutes since midnight, strict
// interval overlap, and civil (calendar) dates handled as UTC days.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical wire format for civil dates.
const DateLayout = "2006-01-02"

// TimeToMinutes parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// It is total: malformed segments parse as 0, so garbage in yields
// garbage out rather than an error. Callers validating user input should
// check the string shape separately.
func TimeToMinutes(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	var hours, minutes int
	if len(parts) > 0 {
		hours, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(parts[1])
	}
	return hours*60 + minutes
}

// MinutesToTime renders minutes since midnight as "HH:MM".
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps reports whether [openA, closeA) and [openB, closeB) share at
// least one instant. Intervals that merely touch at an endpoint do not
// overlap, which is what allows back-to-back bookings.
func Overlaps(openA, closeA, openB, closeB string) bool {
	a := TimeToMinutes(openA)
	b := TimeToMinutes(closeA)
	c := TimeToMinutes(openB)
	d := TimeToMinutes(closeB)
	return a < d && c < b
}

// Within reports whether [slotOpen, slotClose] is fully contained in
// [rangeOpen, rangeClose], boundaries inclusive.
func Within(slotOpen, slotClose, rangeOpen, rangeClose string) bool {
	slotStart := TimeToMinutes(slotOpen)
	slotEnd := TimeToMinutes(slotClose)
	rangeStart := TimeToMinutes(rangeOpen)
	rangeEnd := TimeToMinutes(rangeClose)
	return slotStart >= rangeStart && slotEnd <= rangeEnd
}

// CivilDate truncates t to its UTC calendar day. Dates are compared and
// keyed on this representation everywhere so local-timezone shifts cannot
// move an appointment across midnight.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateKey renders the UTC calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return CivilDate(t).Format(DateLayout)
}

// SameCivilDate reports whether a and b fall on the same UTC calendar day.
func SameCivilDate(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// Today returns the current UTC calendar day.
func Today() time.Time {
	return CivilDate(time.Now())
}
