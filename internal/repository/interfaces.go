package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// ScheduleRepository serves the weekly rules and per-date overrides
	// the schedule resolver works from.
	ScheduleRepository interface {
		FindWorkingDays(ctx context.Context, establishmentID uuid.UUID) ([]*model.WorkingDay, error)
		FindSpecialDates(ctx context.Context, establishmentID uuid.UUID, from, to time.Time) ([]*model.SpecialDate, error)
	}

	ServiceRepository interface {
		FindActiveServices(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error)
	}

	CollaboratorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Collaborator, error)
		// List returns the establishment's roster; a non-nil filter
		// narrows it to that single collaborator.
		List(ctx context.Context, establishmentID uuid.UUID, filter *uuid.UUID) ([]*model.Collaborator, error)
	}

	EstablishmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Establishment, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}

	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error

		// FindOccupied returns PENDING/CONFIRMED appointments for the
		// given collaborators whose date falls in [from, to].
		FindOccupied(ctx context.Context, collaboratorIDs []uuid.UUID, from, to time.Time) ([]*model.Appointment, error)

		// CreateBatch inserts every row in one serializable transaction,
		// re-checking collaborator conflicts inside it. It returns a
		// conflict-class error and writes nothing when any row overlaps
		// an occupied appointment, including one committed by a
		// concurrent transaction.
		CreateBatch(ctx context.Context, appointments []*model.Appointment) ([]*model.Appointment, error)
	}

	// OutboxRepository hands pending domain events to the background
	// processor that delivers them to the broker.
	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	}
)
