package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCanceled  AppointmentStatus = "CANCELED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

// Occupies reports whether an appointment in this status blocks the
// collaborator's calendar for conflict purposes.
func (s AppointmentStatus) Occupies() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// Terminal reports whether no further transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCanceled
}

// CanTransitionTo encodes the lifecycle:
// PENDING -> CONFIRMED -> COMPLETED, and any active state -> CANCELED.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case AppointmentStatusConfirmed:
		return s == AppointmentStatusPending
	case AppointmentStatusCompleted:
		return s == AppointmentStatusConfirmed
	case AppointmentStatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	EstablishmentID uuid.UUID         `db:"establishment_id" json:"establishment_id"`
	CollaboratorID  uuid.UUID         `db:"collaborator_id" json:"collaborator_id"`
	UserID          *uuid.UUID        `db:"user_id" json:"user_id,omitempty"`
	GuestName       *string           `db:"guest_name" json:"guest_name,omitempty"`
	GuestEmail      *string           `db:"guest_email" json:"guest_email,omitempty"`
	GuestPhone      *string           `db:"guest_phone" json:"guest_phone,omitempty"`
	ServiceIDs      pq.StringArray    `db:"service_ids" json:"service_ids"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	DayOfWeek       DayOfWeek         `db:"day_of_week" json:"day_of_week"`
	OpenTime        string            `db:"open_time" json:"open_time"`
	CloseTime       string            `db:"close_time" json:"close_time"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// WorkingDayRequest is one requested slot in a booking batch. It is input
// only and never persisted as-is.
type WorkingDayRequest struct {
	DayOfWeek       DayOfWeek `json:"day_of_week" binding:"omitempty"`
	OpenTime        string    `json:"open_time" binding:"required,timeofday"`
	CloseTime       string    `json:"close_time" binding:"required,timeofday"`
	AppointmentDate string    `json:"appointment_date" binding:"required,dateonly"`
}

// GuestContact is the identity bundle for unauthenticated bookings.
// All three fields are mandatory together.
type GuestContact struct {
	Name  string `json:"guest_name"`
	Email string `json:"guest_email"`
	Phone string `json:"guest_phone"`
}

// CreateAppointmentsRequest books one collaborator for one service set
// across one or more slots, all-or-nothing.
type CreateAppointmentsRequest struct {
	EstablishmentID uuid.UUID           `json:"establishment_id" binding:"required"`
	CollaboratorID  uuid.UUID           `json:"collaborator_id" binding:"required"`
	ServiceIDs      []uuid.UUID         `json:"service_ids" binding:"required,min=1"`
	WorkingDays     []WorkingDayRequest `json:"working_days" binding:"required,min=1,dive"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	GuestName       *string             `json:"guest_name,omitempty"`
	GuestEmail      *string             `json:"guest_email,omitempty"`
	GuestPhone      *string             `json:"guest_phone,omitempty"`
	// InitialStatus lets trusted callers book directly as CONFIRMED;
	// anything else starts as PENDING.
	InitialStatus *AppointmentStatus `json:"initial_status,omitempty"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

// TimeSlot is one candidate slot of the day.
type TimeSlot struct {
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// AvailableSlot is a slot with the collaborators free in it, so the
// caller can pick one deterministically at commit time instead of
// defaulting to list order.
type AvailableSlot struct {
	TimeSlot
	CollaboratorIDs []uuid.UUID `json:"collaborator_ids"`
}

// AvailableSlotsResponse is the availability surface: the civil date and
// its free slots in chronological order.
type AvailableSlotsResponse struct {
	Date  string          `json:"date"`
	Slots []AvailableSlot `json:"slots"`
}

type AppointmentFilters struct {
	EstablishmentID *uuid.UUID
	CollaboratorID  *uuid.UUID
	UserID          *uuid.UUID
	Status          AppointmentStatus
	DateFrom        *time.Time
	DateTo          *time.Time
	Pagination      Pagination
}
