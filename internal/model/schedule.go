package model

import (
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is the weekly-rule weekday enum, stored as its name.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "SUNDAY"
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
)

var dayNames = [7]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOfWeekFor returns the weekday of t's UTC calendar day.
func DayOfWeekFor(t time.Time) DayOfWeek {
	return dayNames[int(t.UTC().Weekday())]
}

func (d DayOfWeek) Valid() bool {
	for _, n := range dayNames {
		if d == n {
			return true
		}
	}
	return false
}

// WorkingDay is a weekly recurring operating rule. CollaboratorID nil
// means the establishment-level default; a non-nil value is a
// collaborator-specific override preferred over the default.
type WorkingDay struct {
	Base
	EstablishmentID uuid.UUID  `db:"establishment_id" json:"establishment_id"`
	CollaboratorID  *uuid.UUID `db:"collaborator_id" json:"collaborator_id,omitempty"`
	DayOfWeek       DayOfWeek  `db:"day_of_week" json:"day_of_week"`
	OpenTime        string     `db:"open_time" json:"open_time"`
	CloseTime       string     `db:"close_time" json:"close_time"`
}

// SpecialDate is a calendar-specific override that takes precedence over
// the weekly rule. IsClosed wins over any time fields; open/close, when
// both set, restrict the day's window.
type SpecialDate struct {
	Base
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	Date            time.Time `db:"date" json:"date"`
	IsClosed        bool      `db:"is_closed" json:"is_closed"`
	OpenTime        *string   `db:"open_time" json:"open_time,omitempty"`
	CloseTime       *string   `db:"close_time" json:"close_time,omitempty"`
}

// HasWindow reports whether the special date carries its own open/close
// window rather than inheriting the weekly hours.
func (s *SpecialDate) HasWindow() bool {
	return s.OpenTime != nil && s.CloseTime != nil
}
