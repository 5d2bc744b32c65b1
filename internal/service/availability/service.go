// Package availability computes the bookable slots of an establishment
// for a civil date: the resolved schedule window tiled into slots, minus
// the slots where no collaborator on the roster is free.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/internal/repository"
	"github.com/saloonly/booking-api/internal/service/schedule"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

type Service struct {
	schedule       *schedule.Service
	establishments repository.EstablishmentRepository
	collaborators  repository.CollaboratorRepository
	services       repository.ServiceRepository
	appointments   repository.AppointmentRepository
}

func NewService(
	scheduleSvc *schedule.Service,
	establishments repository.EstablishmentRepository,
	collaborators repository.CollaboratorRepository,
	services repository.ServiceRepository,
	appointments repository.AppointmentRepository,
) *Service {
	return &Service{
		schedule:       scheduleSvc,
		establishments: establishments,
		collaborators:  collaborators,
		services:       services,
		appointments:   appointments,
	}
}

// SlotsQuery selects the day to compute. SlotMinutes wins when set;
// otherwise the durations of ServiceIDs are summed; otherwise the
// default slot length applies. A non-nil CollaboratorID narrows the
// roster to that collaborator's personal free/busy.
type SlotsQuery struct {
	EstablishmentID uuid.UUID
	Date            time.Time
	CollaboratorID  *uuid.UUID
	SlotMinutes     int
	ServiceIDs      []uuid.UUID
}

// GetAvailableSlots returns, in chronological order, every candidate slot
// of the day with the collaborators still free in it. The computation is
// read-only; results are a snapshot that a subsequent booking attempt
// revalidates transactionally.
func (s *Service) GetAvailableSlots(ctx context.Context, q SlotsQuery) (*model.AvailableSlotsResponse, error) {
	if _, err := s.establishments.Get(ctx, q.EstablishmentID); err != nil {
		return nil, err
	}

	slotMinutes, err := s.resolveSlotMinutes(ctx, q)
	if err != nil {
		return nil, err
	}

	resp := &model.AvailableSlotsResponse{
		Date:  timeutil.DateKey(q.Date),
		Slots: []model.AvailableSlot{},
	}

	window, err := s.schedule.ResolveDay(ctx, q.EstablishmentID, q.CollaboratorID, q.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schedule: %w", err)
	}
	if window.Closed {
		return resp, nil
	}

	candidates := schedule.GenerateSlots(window.OpenTime, window.CloseTime, slotMinutes)
	if len(candidates) == 0 {
		return resp, nil
	}

	roster, err := s.collaborators.List(ctx, q.EstablishmentID, q.CollaboratorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	// No roster means no collaborator-level conflicts are possible;
	// every generated slot is offered.
	if len(roster) == 0 {
		for _, c := range candidates {
			resp.Slots = append(resp.Slots, model.AvailableSlot{TimeSlot: c})
		}
		return resp, nil
	}

	rosterIDs := make([]uuid.UUID, len(roster))
	for i, c := range roster {
		rosterIDs[i] = c.ID
	}

	day := timeutil.CivilDate(q.Date)
	occupied, err := s.appointments.FindOccupied(ctx, rosterIDs, day, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing appointments: %w", err)
	}

	busy := make(map[uuid.UUID][]*model.Appointment, len(rosterIDs))
	for _, apt := range occupied {
		if !timeutil.SameCivilDate(apt.AppointmentDate, day) {
			continue
		}
		busy[apt.CollaboratorID] = append(busy[apt.CollaboratorID], apt)
	}

	for _, candidate := range candidates {
		var free []uuid.UUID
		for _, id := range rosterIDs {
			if !overlapsAny(candidate, busy[id]) {
				free = append(free, id)
			}
		}
		if len(free) > 0 {
			resp.Slots = append(resp.Slots, model.AvailableSlot{
				TimeSlot:        candidate,
				CollaboratorIDs: free,
			})
		}
	}
	return resp, nil
}

func (s *Service) resolveSlotMinutes(ctx context.Context, q SlotsQuery) (int, error) {
	if q.SlotMinutes > 0 {
		return q.SlotMinutes, nil
	}
	if len(q.ServiceIDs) == 0 {
		return schedule.DefaultSlotMinutes, nil
	}

	services, err := s.services.FindActiveServices(ctx, q.ServiceIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to load services: %w", err)
	}
	if len(services) != len(q.ServiceIDs) {
		return 0, apperrors.New(apperrors.ErrUnknownService, "one or more services were not found")
	}
	return model.TotalDuration(services), nil
}

func overlapsAny(slot model.TimeSlot, appointments []*model.Appointment) bool {
	for _, apt := range appointments {
		if timeutil.Overlaps(slot.OpenTime, slot.CloseTime, apt.OpenTime, apt.CloseTime) {
			return true
		}
	}
	return false
}
