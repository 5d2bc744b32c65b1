package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/model"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
)

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.BadRequest("invalid status filter")
	}
	return s.appointments.List(ctx, filters)
}

// UpdateStatus moves an appointment through its lifecycle. COMPLETED and
// CANCELED are terminal; everything else follows
// PENDING -> CONFIRMED -> COMPLETED with cancellation allowed from any
// active state.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	if !next.Valid() {
		return nil, apperrors.BadRequest("invalid appointment status")
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !apt.Status.CanTransitionTo(next) {
		return nil, apperrors.New(apperrors.ErrBadRequest,
			"cannot transition appointment from %s to %s", apt.Status, next)
	}

	// The check above only rejects the obviously invalid request early:
	// the repository re-validates the transition under a row lock, so a
	// concurrent transition cannot overwrite a terminal status. It also
	// records the status-changed event in the same transaction.
	if err := s.appointments.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	apt.Status = next
	apt.UpdatedAt = time.Now().UTC()
	return apt, nil
}

// Cancel is client self-cancellation; the userID guard stops customers
// from cancelling appointments that are not theirs. A nil userID is an
// administrative cancel.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*model.Appointment, error) {
	if userID != nil {
		apt, err := s.appointments.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if apt.UserID == nil || *apt.UserID != *userID {
			return nil, apperrors.NotFound("appointment")
		}
	}
	return s.UpdateStatus(ctx, id, model.AppointmentStatusCanceled)
}
