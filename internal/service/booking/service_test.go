package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloonly/booking-api/internal/email"
	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/internal/service/schedule"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
	"github.com/saloonly/booking-api/pkg/logger"
	"github.com/saloonly/booking-api/pkg/metrics"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

// Prometheus collectors register globally, so the test binary shares one
// metrics instance.
var testMetrics = metrics.New("booking_test")

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

type fakeScheduleRepo struct {
	workingDays []*model.WorkingDay
	specials    []*model.SpecialDate
}

func (f *fakeScheduleRepo) FindWorkingDays(_ context.Context, _ uuid.UUID) ([]*model.WorkingDay, error) {
	return f.workingDays, nil
}

func (f *fakeScheduleRepo) FindSpecialDates(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*model.SpecialDate, error) {
	return f.specials, nil
}

type fakeEstablishmentRepo struct {
	establishment *model.Establishment
}

func (f *fakeEstablishmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Establishment, error) {
	if f.establishment == nil || f.establishment.ID != id {
		return nil, apperrors.NotFound("establishment")
	}
	return f.establishment, nil
}

type fakeCollaboratorRepo struct {
	collaborators []*model.Collaborator
}

func (f *fakeCollaboratorRepo) Get(_ context.Context, id uuid.UUID) (*model.Collaborator, error) {
	for _, c := range f.collaborators {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NotFound("collaborator")
}

func (f *fakeCollaboratorRepo) List(_ context.Context, _ uuid.UUID, _ *uuid.UUID) ([]*model.Collaborator, error) {
	return f.collaborators, nil
}

type fakeServiceRepo struct {
	services []*model.Service
}

func (f *fakeServiceRepo) FindActiveServices(_ context.Context, ids []uuid.UUID) ([]*model.Service, error) {
	var out []*model.Service
	for _, id := range ids {
		for _, s := range f.services {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

// fakeAppointmentRepo keeps committed rows in memory and mirrors the
// transactional conflict re-check: CreateBatch atomically rejects a
// batch that overlaps anything already stored.
type fakeAppointmentRepo struct {
	mu     sync.Mutex
	stored []*model.Appointment
}

// Get returns a snapshot, not the stored row: callers read outside the
// transaction and must not observe later writes through the pointer.
func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, apt := range f.stored {
		if apt.ID == id {
			snapshot := *apt
			return &snapshot, nil
		}
	}
	return nil, apperrors.NotFound("appointment")
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Appointment(nil), f.stored...), nil
}

// UpdateStatus mirrors the row-lock re-validation: the transition is
// checked against the stored status atomically with the write.
func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, apt := range f.stored {
		if apt.ID == id {
			if !apt.Status.CanTransitionTo(status) {
				return apperrors.New(apperrors.ErrBadRequest,
					"cannot transition appointment from %s to %s", apt.Status, status)
			}
			apt.Status = status
			return nil
		}
	}
	return apperrors.NotFound("appointment")
}

func (f *fakeAppointmentRepo) FindOccupied(_ context.Context, collaboratorIDs []uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range f.stored {
		if !apt.Status.Occupies() {
			continue
		}
		if apt.AppointmentDate.Before(from) || apt.AppointmentDate.After(to) {
			continue
		}
		for _, id := range collaboratorIDs {
			if apt.CollaboratorID == id {
				out = append(out, apt)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CreateBatch(_ context.Context, appointments []*model.Appointment) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, apt := range appointments {
		for _, existing := range f.stored {
			if existing.CollaboratorID != apt.CollaboratorID || !existing.Status.Occupies() {
				continue
			}
			if !timeutil.SameCivilDate(existing.AppointmentDate, apt.AppointmentDate) {
				continue
			}
			if timeutil.Overlaps(apt.OpenTime, apt.CloseTime, existing.OpenTime, existing.CloseTime) {
				return nil, apperrors.New(apperrors.ErrBookingConflict, "slot was booked by a concurrent request")
			}
		}
	}
	f.stored = append(f.stored, appointments...)
	return appointments, nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []email.ConfirmationPayload
	done chan struct{}
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{done: make(chan struct{}, 16)}
}

func (f *fakeEmailService) SendBookingConfirmation(_ context.Context, payload email.ConfirmationPayload) error {
	f.mu.Lock()
	f.sent = append(f.sent, payload)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeEmailService) wait(t *testing.T) email.ConfirmationPayload {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for confirmation email")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	estID    uuid.UUID
	collabID uuid.UUID
	userID   uuid.UUID
	haircut  *model.Service
	svc      *Service
	aptRepo  *fakeAppointmentRepo
	schedRep *fakeScheduleRepo
	emails   *fakeEmailService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	estID := uuid.New()
	collabID := uuid.New()
	userID := uuid.New()
	haircut := &model.Service{
		Base:            model.Base{ID: uuid.New()},
		EstablishmentID: estID,
		Description:     "Haircut",
		Duration:        30,
		Active:          true,
	}

	schedRepo := &fakeScheduleRepo{
		workingDays: []*model.WorkingDay{{
			Base:            model.Base{ID: uuid.New()},
			EstablishmentID: estID,
			DayOfWeek:       model.Monday,
			OpenTime:        "09:00",
			CloseTime:       "18:00",
		}},
	}
	aptRepo := &fakeAppointmentRepo{}
	emails := newFakeEmailService()

	svc := NewService(
		schedule.NewService(schedRepo),
		aptRepo,
		&fakeServiceRepo{services: []*model.Service{haircut}},
		&fakeCollaboratorRepo{collaborators: []*model.Collaborator{
			{Base: model.Base{ID: collabID}, EstablishmentID: estID, Name: "Alex"},
		}},
		&fakeEstablishmentRepo{establishment: &model.Establishment{
			Base: model.Base{ID: estID},
			Name: "Main Street Barbers",
		}},
		&fakeUserRepo{users: []*model.User{
			{Base: model.Base{ID: userID}, Name: "Jordan", Email: "jordan@example.com"},
		}},
		emails,
		testMetrics,
		logger.New(&logger.Config{Level: "disabled"}),
	)

	return &fixture{
		estID:    estID,
		collabID: collabID,
		userID:   userID,
		haircut:  haircut,
		svc:      svc,
		aptRepo:  aptRepo,
		schedRep: schedRepo,
		emails:   emails,
	}
}

func (f *fixture) request(slots ...model.WorkingDayRequest) *model.CreateAppointmentsRequest {
	return &model.CreateAppointmentsRequest{
		EstablishmentID: f.estID,
		CollaboratorID:  f.collabID,
		ServiceIDs:      []uuid.UUID{f.haircut.ID},
		WorkingDays:     slots,
		UserID:          &f.userID,
	}
}

func slot(date, open, close string) model.WorkingDayRequest {
	return model.WorkingDayRequest{
		AppointmentDate: date,
		OpenTime:        open,
		CloseTime:       close,
	}
}

func TestCreateAppointments(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)
	require.Len(t, created, 1)

	apt := created[0]
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, model.Monday, apt.DayOfWeek)
	assert.Equal(t, &f.userID, apt.UserID)
	assert.Nil(t, apt.GuestEmail)

	payload := f.emails.wait(t)
	assert.Equal(t, "jordan@example.com", payload.ToEmail)
	assert.Equal(t, "Main Street Barbers", payload.EstablishmentName)
	require.Len(t, payload.Slots, 1)
	assert.Equal(t, "2026-09-07", payload.Slots[0].Date)
}

func TestCreateAppointmentsInitialStatusConfirmed(t *testing.T) {
	f := newFixture(t)

	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	confirmed := model.AppointmentStatusConfirmed
	req.InitialStatus = &confirmed

	created, err := f.svc.CreateAppointments(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, created[0].Status)
}

func TestCreateAppointmentsRejectsEmptyBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
	assert.Empty(t, f.aptRepo.stored)
}

func TestCreateAppointmentsRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2020-01-06", "10:00", "10:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrPastDate, apperrors.CodeOf(err))
	assert.Empty(t, f.aptRepo.stored)
}

func TestCreateAppointmentsRejectsClosedDay(t *testing.T) {
	f := newFixture(t)

	// 2026-09-06 is a Sunday with no weekly rule.
	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-06", "10:00", "10:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrClosed, apperrors.CodeOf(err))
}

func TestCreateAppointmentsRejectsClosedSpecialDate(t *testing.T) {
	f := newFixture(t)
	f.schedRep.specials = []*model.SpecialDate{{
		Base:            model.Base{ID: uuid.New()},
		EstablishmentID: f.estID,
		Date:            monday,
		IsClosed:        true,
	}}

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrClosed, apperrors.CodeOf(err))
}

func TestCreateAppointmentsRejectsOutOfHours(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "18:00", "18:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOutOfHours, apperrors.CodeOf(err))
}

func TestCreateAppointmentsRejectsOutOfSpecialHours(t *testing.T) {
	f := newFixture(t)
	open, close := "10:00", "14:00"
	f.schedRep.specials = []*model.SpecialDate{{
		Base:            model.Base{ID: uuid.New()},
		EstablishmentID: f.estID,
		Date:            monday,
		OpenTime:        &open,
		CloseTime:       &close,
	}}

	// Inside the weekly window but outside the special one.
	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "09:00", "09:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOutOfSpecialHours, apperrors.CodeOf(err))

	// Inside both windows books normally.
	_, err = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)
}

func TestCreateAppointmentsRejectsIntraBatchOverlap(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(
		slot("2026-09-07", "10:00", "11:00"),
		slot("2026-09-07", "10:30", "11:30"),
	))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrIntraBatchConflict, apperrors.CodeOf(err))
	assert.Empty(t, f.aptRepo.stored)
}

func TestCreateAppointmentsRejectsExistingConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "11:00")))
	require.NoError(t, err)

	_, err = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:30", "11:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBookingConflict, apperrors.CodeOf(err))
	assert.Len(t, f.aptRepo.stored, 1)
}

func TestCreateAppointmentsAllowsBackToBack(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "11:00")))
	require.NoError(t, err)

	_, err = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "11:00", "12:00")))
	require.NoError(t, err)
	assert.Len(t, f.aptRepo.stored, 2)
}

func TestCreateAppointmentsBatchIsAtomic(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "14:00", "15:00")))
	require.NoError(t, err)

	// The second slot collides, so the first must not be written either.
	_, err = f.svc.CreateAppointments(context.Background(), f.request(
		slot("2026-09-07", "09:00", "10:00"),
		slot("2026-09-07", "14:30", "15:30"),
	))
	require.Error(t, err)
	assert.Len(t, f.aptRepo.stored, 1)
}

func TestCreateAppointmentsCanceledSlotIsReusable(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "11:00")))
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), created[0].ID, &f.userID)
	require.NoError(t, err)

	_, err = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "11:00")))
	require.NoError(t, err)
}

func TestCreateAppointmentsGuestBooking(t *testing.T) {
	f := newFixture(t)

	name, mail, phone := "Sam", "sam@example.com", "+15550001111"
	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.UserID = nil
	req.GuestName, req.GuestEmail, req.GuestPhone = &name, &mail, &phone

	created, err := f.svc.CreateAppointments(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, created[0].UserID)
	require.NotNil(t, created[0].GuestEmail)
	assert.Equal(t, mail, *created[0].GuestEmail)

	payload := f.emails.wait(t)
	assert.Equal(t, mail, payload.ToEmail)
}

func TestCreateAppointmentsStaleUserFallsBackToGuest(t *testing.T) {
	f := newFixture(t)

	stale := uuid.New()
	name, mail, phone := "Sam", "sam@example.com", "+15550001111"
	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.UserID = &stale
	req.GuestName, req.GuestEmail, req.GuestPhone = &name, &mail, &phone

	created, err := f.svc.CreateAppointments(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, created[0].UserID)
	require.NotNil(t, created[0].GuestName)
	assert.Equal(t, name, *created[0].GuestName)
}

func TestCreateAppointmentsStaleUserWithoutGuestFails(t *testing.T) {
	f := newFixture(t)

	stale := uuid.New()
	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.UserID = &stale

	_, err := f.svc.CreateAppointments(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrIdentity, apperrors.CodeOf(err))
}

func TestCreateAppointmentsMissingGuestContact(t *testing.T) {
	f := newFixture(t)

	name := "Sam"
	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.UserID = nil
	req.GuestName = &name // email and phone missing

	_, err := f.svc.CreateAppointments(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrIdentity, apperrors.CodeOf(err))
}

func TestCreateAppointmentsUnknownService(t *testing.T) {
	f := newFixture(t)

	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.ServiceIDs = append(req.ServiceIDs, uuid.New())

	_, err := f.svc.CreateAppointments(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnknownService, apperrors.CodeOf(err))
}

func TestCreateAppointmentsCollaboratorFromOtherEstablishment(t *testing.T) {
	f := newFixture(t)

	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.CollaboratorID = uuid.New()

	_, err := f.svc.CreateAppointments(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestCreateAppointmentsRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "11:00", "10:00")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestCreateAppointmentsRejectsDayOfWeekMismatch(t *testing.T) {
	f := newFixture(t)

	s := slot("2026-09-07", "10:00", "10:30")
	s.DayOfWeek = model.Friday

	_, err := f.svc.CreateAppointments(context.Background(), f.request(s))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

// Two identical batches racing through validation must produce exactly
// one booking; the repository-level re-check rejects the loser.
func TestCreateAppointmentsConcurrentRace(t *testing.T) {
	f := newFixture(t)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "11:00")))
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, apperrors.ErrBookingConflict, apperrors.CodeOf(err))
		}
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, f.aptRepo.stored, 1)
}

// A revoked working window must reject the very next booking, even when
// a recent availability read left the old rules in the schedule cache.
func TestCreateAppointmentsSeesRevokedHours(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)

	f.schedRep.workingDays = nil
	_, err = f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "11:00", "11:30")))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrClosed, apperrors.CodeOf(err))
	assert.Len(t, f.aptRepo.stored, 1)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)
	id := created[0].ID

	apt, err := f.svc.UpdateStatus(context.Background(), id, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)

	apt, err = f.svc.UpdateStatus(context.Background(), id, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, apt.Status)

	// Terminal states are frozen.
	_, err = f.svc.UpdateStatus(context.Background(), id, model.AppointmentStatusCanceled)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

func TestUpdateStatusRejectsSkippedTransition(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), created[0].ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
}

// A cancel racing a completion on one CONFIRMED appointment must leave
// exactly one terminal status: both pass the optimistic service check,
// but the transition is re-validated with the write, so the loser is
// rejected instead of overwriting.
func TestUpdateStatusConcurrentTerminalRace(t *testing.T) {
	f := newFixture(t)

	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	confirmed := model.AppointmentStatusConfirmed
	req.InitialStatus = &confirmed
	created, err := f.svc.CreateAppointments(context.Background(), req)
	require.NoError(t, err)
	id := created[0].ID

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.UpdateStatus(context.Background(), id, model.AppointmentStatusCanceled)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.UpdateStatus(context.Background(), id, model.AppointmentStatusCompleted)
	}()
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, apperrors.ErrBadRequest, apperrors.CodeOf(err))
		}
	}
	assert.Equal(t, 1, successes)

	stored, err := f.aptRepo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.Status.Terminal())
	if errs[0] == nil {
		assert.Equal(t, model.AppointmentStatusCanceled, stored.Status)
	} else {
		assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
	}
}

func TestCancelOwnershipGuard(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateAppointments(context.Background(), f.request(slot("2026-09-07", "10:00", "10:30")))
	require.NoError(t, err)
	id := created[0].ID

	stranger := uuid.New()
	_, err = f.svc.Cancel(context.Background(), id, &stranger)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))

	apt, err := f.svc.Cancel(context.Background(), id, &f.userID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, apt.Status)
}

func TestCancelAdminBypassesOwnership(t *testing.T) {
	f := newFixture(t)

	name, mail, phone := "Sam", "sam@example.com", "+15550001111"
	req := f.request(slot("2026-09-07", "10:00", "10:30"))
	req.UserID = nil
	req.GuestName, req.GuestEmail, req.GuestPhone = &name, &mail, &phone

	created, err := f.svc.CreateAppointments(context.Background(), req)
	require.NoError(t, err)

	apt, err := f.svc.Cancel(context.Background(), created[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, apt.Status)
}
