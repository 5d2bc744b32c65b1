// Package booking validates and commits appointment batches for a single
// collaborator, and drives the appointment lifecycle afterwards.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/saloonly/booking-api/internal/email"
	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/internal/repository"
	"github.com/saloonly/booking-api/internal/service/schedule"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
	"github.com/saloonly/booking-api/pkg/logger"
	"github.com/saloonly/booking-api/pkg/metrics"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

type Service struct {
	schedule       *schedule.Service
	appointments   repository.AppointmentRepository
	services       repository.ServiceRepository
	collaborators  repository.CollaboratorRepository
	establishments repository.EstablishmentRepository
	users          repository.UserRepository
	emailSvc       email.Service
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

func NewService(
	scheduleSvc *schedule.Service,
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	collaborators repository.CollaboratorRepository,
	establishments repository.EstablishmentRepository,
	users repository.UserRepository,
	emailSvc email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		schedule:       scheduleSvc,
		appointments:   appointments,
		services:       services,
		collaborators:  collaborators,
		establishments: establishments,
		users:          users,
		emailSvc:       emailSvc,
		metrics:        m,
		logger:         log,
	}
}

// identity is the resolved customer: an authenticated user or a guest
// contact bundle, never both.
type identity struct {
	userID *uuid.UUID
	user   *model.User
	guest  *model.GuestContact
}

func (id identity) email() string {
	if id.user != nil {
		return id.user.Email
	}
	return id.guest.Email
}

func (id identity) name() string {
	if id.user != nil {
		return id.user.Name
	}
	return id.guest.Name
}

// batchItem is one request with its date parsed to a civil day.
type batchItem struct {
	req  model.WorkingDayRequest
	date time.Time
}

// CreateAppointments validates the whole batch and commits it atomically.
// Any validation failure rejects the entire batch before a single row is
// written; the repository re-checks conflicts inside the insert
// transaction, so a concurrent overlapping booking cannot slip through
// between validation and commit.
func (s *Service) CreateAppointments(ctx context.Context, req *model.CreateAppointmentsRequest) ([]*model.Appointment, error) {
	start := time.Now()

	created, err := s.createAppointments(ctx, req)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			s.metrics.BookingRejections.WithLabelValues(string(appErr.Code)).Inc()
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Add(float64(len(created)))
	s.metrics.BookingBatchSize.Observe(float64(len(created)))
	s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
	return created, nil
}

func (s *Service) createAppointments(ctx context.Context, req *model.CreateAppointmentsRequest) ([]*model.Appointment, error) {
	ident, err := s.resolveIdentity(ctx, req)
	if err != nil {
		return nil, err
	}

	establishment, err := s.establishments.Get(ctx, req.EstablishmentID)
	if err != nil {
		return nil, err
	}
	collaborator, err := s.collaborators.Get(ctx, req.CollaboratorID)
	if err != nil {
		return nil, err
	}
	if collaborator.EstablishmentID != req.EstablishmentID {
		return nil, apperrors.NotFound("collaborator")
	}

	services, err := s.services.FindActiveServices(ctx, req.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}
	if len(services) != len(req.ServiceIDs) {
		return nil, apperrors.New(apperrors.ErrUnknownService, "one or more services were not found")
	}

	batch, err := parseBatch(req.WorkingDays)
	if err != nil {
		return nil, err
	}
	if err := s.validateBatch(ctx, req, batch); err != nil {
		return nil, err
	}

	rows := s.buildRows(req, batch, ident)
	created, err := s.appointments.CreateBatch(ctx, rows)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ident, establishment, collaborator, services, created)
	return created, nil
}

func (s *Service) resolveIdentity(ctx context.Context, req *model.CreateAppointmentsRequest) (identity, error) {
	guest := guestContact(req)

	if req.UserID != nil {
		user, err := s.users.Get(ctx, *req.UserID)
		if err == nil {
			return identity{userID: req.UserID, user: user}, nil
		}
		if appErr, ok := apperrors.As(err); !ok || appErr.Code != apperrors.ErrNotFound {
			return identity{}, err
		}
		// Stale user id: fall back to the guest bundle when complete.
		if guest != nil {
			return identity{guest: guest}, nil
		}
		return identity{}, apperrors.New(apperrors.ErrIdentity, "user not found")
	}

	if guest == nil {
		return identity{}, apperrors.New(apperrors.ErrIdentity,
			"guest booking requires guest_name, guest_email and guest_phone")
	}
	return identity{guest: guest}, nil
}

func guestContact(req *model.CreateAppointmentsRequest) *model.GuestContact {
	if req.GuestName == nil || req.GuestEmail == nil || req.GuestPhone == nil {
		return nil
	}
	if *req.GuestName == "" || *req.GuestEmail == "" || *req.GuestPhone == "" {
		return nil
	}
	return &model.GuestContact{Name: *req.GuestName, Email: *req.GuestEmail, Phone: *req.GuestPhone}
}

func parseBatch(requests []model.WorkingDayRequest) ([]batchItem, error) {
	if len(requests) == 0 {
		return nil, apperrors.BadRequest("at least one working day is required")
	}
	batch := make([]batchItem, 0, len(requests))
	for _, r := range requests {
		date, err := timeutil.ParseDate(r.AppointmentDate)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		if timeutil.TimeToMinutes(r.OpenTime) >= timeutil.TimeToMinutes(r.CloseTime) {
			return nil, apperrors.BadRequest(
				fmt.Sprintf("open_time %s must precede close_time %s", r.OpenTime, r.CloseTime))
		}
		derived := model.DayOfWeekFor(date)
		if r.DayOfWeek != "" && r.DayOfWeek != derived {
			return nil, apperrors.BadRequest(
				fmt.Sprintf("day_of_week %s does not match appointment_date %s (%s)", r.DayOfWeek, r.AppointmentDate, derived))
		}
		r.DayOfWeek = derived
		batch = append(batch, batchItem{req: r, date: timeutil.CivilDate(date)})
	}
	return batch, nil
}

// validateBatch runs the rejection sequence: past dates, schedule (closed,
// regular hours, special hours), intra-batch overlaps, then existing
// bookings. The first violation wins.
func (s *Service) validateBatch(ctx context.Context, req *model.CreateAppointmentsRequest, batch []batchItem) error {
	today := timeutil.Today()
	for _, item := range batch {
		if item.date.Before(today) {
			return apperrors.New(apperrors.ErrPastDate,
				"cannot book in the past: %s", timeutil.DateKey(item.date))
		}
	}

	for _, item := range batch {
		if err := s.validateAgainstSchedule(ctx, req, item); err != nil {
			return err
		}
	}

	for i := 0; i < len(batch); i++ {
		for j := i + 1; j < len(batch); j++ {
			a, b := batch[i], batch[j]
			if !timeutil.SameCivilDate(a.date, b.date) {
				continue
			}
			if timeutil.Overlaps(a.req.OpenTime, a.req.CloseTime, b.req.OpenTime, b.req.CloseTime) {
				return apperrors.New(apperrors.ErrIntraBatchConflict,
					"two requested slots overlap on %s", timeutil.DateKey(a.date))
			}
		}
	}

	return s.validateAgainstExisting(ctx, req.CollaboratorID, batch)
}

func (s *Service) validateAgainstSchedule(ctx context.Context, req *model.CreateAppointmentsRequest, item batchItem) error {
	window, err := s.schedule.ResolveDayFresh(ctx, req.EstablishmentID, &req.CollaboratorID, item.date)
	if err != nil {
		return fmt.Errorf("failed to resolve schedule: %w", err)
	}
	dayKey := timeutil.DateKey(item.date)

	if window.Special != nil && window.Special.IsClosed {
		return apperrors.New(apperrors.ErrClosed, "establishment is closed on %s", dayKey)
	}
	if window.Regular == nil {
		return apperrors.New(apperrors.ErrClosed,
			"establishment does not operate on %s", item.req.DayOfWeek)
	}
	if !timeutil.Within(item.req.OpenTime, item.req.CloseTime, window.Regular.OpenTime, window.Regular.CloseTime) {
		return apperrors.New(apperrors.ErrOutOfHours,
			"requested slot (%s-%s) is outside working hours (%s-%s) on %s",
			item.req.OpenTime, item.req.CloseTime,
			window.Regular.OpenTime, window.Regular.CloseTime, item.req.DayOfWeek)
	}
	if window.Special != nil && window.Special.HasWindow() {
		if !timeutil.Within(item.req.OpenTime, item.req.CloseTime, *window.Special.OpenTime, *window.Special.CloseTime) {
			return apperrors.New(apperrors.ErrOutOfSpecialHours,
				"requested slot (%s-%s) is outside the special hours (%s-%s) on %s",
				item.req.OpenTime, item.req.CloseTime,
				*window.Special.OpenTime, *window.Special.CloseTime, dayKey)
		}
	}
	return nil
}

func (s *Service) validateAgainstExisting(ctx context.Context, collaboratorID uuid.UUID, batch []batchItem) error {
	from, to := batch[0].date, batch[0].date
	for _, item := range batch[1:] {
		if item.date.Before(from) {
			from = item.date
		}
		if item.date.After(to) {
			to = item.date
		}
	}

	existing, err := s.appointments.FindOccupied(ctx, []uuid.UUID{collaboratorID}, from, to)
	if err != nil {
		return fmt.Errorf("failed to load existing appointments: %w", err)
	}

	for _, item := range batch {
		for _, apt := range existing {
			if !timeutil.SameCivilDate(apt.AppointmentDate, item.date) {
				continue
			}
			if timeutil.Overlaps(item.req.OpenTime, item.req.CloseTime, apt.OpenTime, apt.CloseTime) {
				return apperrors.New(apperrors.ErrBookingConflict,
					"collaborator already booked on %s between %s and %s",
					timeutil.DateKey(item.date), apt.OpenTime, apt.CloseTime)
			}
		}
	}
	return nil
}

func (s *Service) buildRows(req *model.CreateAppointmentsRequest, batch []batchItem, ident identity) []*model.Appointment {
	status := model.AppointmentStatusPending
	if req.InitialStatus != nil && *req.InitialStatus == model.AppointmentStatusConfirmed {
		status = model.AppointmentStatusConfirmed
	}

	serviceIDs := make(pq.StringArray, len(req.ServiceIDs))
	for i, id := range req.ServiceIDs {
		serviceIDs[i] = id.String()
	}

	rows := make([]*model.Appointment, len(batch))
	for i, item := range batch {
		apt := &model.Appointment{
			Base:            model.Base{ID: uuid.New()},
			EstablishmentID: req.EstablishmentID,
			CollaboratorID:  req.CollaboratorID,
			UserID:          ident.userID,
			ServiceIDs:      serviceIDs,
			AppointmentDate: item.date,
			DayOfWeek:       item.req.DayOfWeek,
			OpenTime:        item.req.OpenTime,
			CloseTime:       item.req.CloseTime,
			Status:          status,
		}
		if ident.guest != nil {
			apt.GuestName = &ident.guest.Name
			apt.GuestEmail = &ident.guest.Email
			apt.GuestPhone = &ident.guest.Phone
		}
		rows[i] = apt
	}
	return rows
}

// sendConfirmation fires the confirmation email in the background.
// Failures are logged and counted, never surfaced: the booking already
// committed.
func (s *Service) sendConfirmation(ident identity, establishment *model.Establishment, collaborator *model.Collaborator, services []*model.Service, created []*model.Appointment) {
	slots := make([]email.BookedSlot, len(created))
	for i, apt := range created {
		slots[i] = email.BookedSlot{
			Date:      timeutil.DateKey(apt.AppointmentDate),
			OpenTime:  apt.OpenTime,
			CloseTime: apt.CloseTime,
		}
	}
	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Description
	}

	payload := email.ConfirmationPayload{
		ToEmail:           ident.email(),
		CustomerName:      ident.name(),
		EstablishmentName: establishment.Name,
		CollaboratorName:  collaborator.Name,
		ServiceNames:      names,
		Slots:             slots,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailSvc.SendBookingConfirmation(ctx, payload); err != nil {
			s.metrics.ConfirmationEmailsFailed.Inc()
			s.logger.Warn(err, "failed to send booking confirmation", "to", payload.ToEmail)
			return
		}
		s.metrics.ConfirmationEmailsSent.Inc()
	}()
}
