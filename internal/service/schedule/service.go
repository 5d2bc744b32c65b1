// Package schedule resolves the effective operating window of an
// establishment for a civil date: weekly working-day rules overlaid by
// per-date special overrides.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/internal/repository"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

// Weekly rules are read-mostly; a short TTL cache keeps the availability
// path from rereading them on every request.
const (
	workingDaysTTL   = 5 * time.Minute
	cacheSweepPeriod = 10 * time.Minute
)

type Service struct {
	repo  repository.ScheduleRepository
	cache *cache.Cache
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(workingDaysTTL, cacheSweepPeriod),
	}
}

// DayWindow is the resolved schedule for one civil date. Closed means no
// slots regardless of the other fields. OpenTime/CloseTime hold the
// effective window (the special override when present, the weekly rule
// otherwise). Regular and Special expose the underlying rules so callers
// can enforce the stricter special-date containment separately.
type DayWindow struct {
	Closed    bool
	OpenTime  string
	CloseTime string
	Regular   *model.WorkingDay
	Special   *model.SpecialDate
}

var closedDay = &DayWindow{Closed: true}

// ResolveDay determines the effective window for the date. A non-nil
// collaboratorID prefers that collaborator's weekly rules over the
// establishment-level defaults when any exist. Weekly rules are read
// through the TTL cache; availability listings tolerate that staleness.
func (s *Service) ResolveDay(ctx context.Context, establishmentID uuid.UUID, collaboratorID *uuid.UUID, date time.Time) (*DayWindow, error) {
	return s.resolveDay(ctx, establishmentID, collaboratorID, date, true)
}

// ResolveDayFresh resolves the window from a direct rule read, skipping
// the cache. Booking validation uses it so a just-edited schedule can
// never admit a booking the cache still remembers.
func (s *Service) ResolveDayFresh(ctx context.Context, establishmentID uuid.UUID, collaboratorID *uuid.UUID, date time.Time) (*DayWindow, error) {
	return s.resolveDay(ctx, establishmentID, collaboratorID, date, false)
}

func (s *Service) resolveDay(ctx context.Context, establishmentID uuid.UUID, collaboratorID *uuid.UUID, date time.Time, cached bool) (*DayWindow, error) {
	day := timeutil.CivilDate(date)

	workingDays, err := s.workingDays(ctx, establishmentID, cached)
	if err != nil {
		return nil, err
	}
	specials, err := s.repo.FindSpecialDates(ctx, establishmentID, day, day)
	if err != nil {
		return nil, err
	}

	var special *model.SpecialDate
	for _, sd := range specials {
		if timeutil.SameCivilDate(sd.Date, day) {
			special = sd
			break
		}
	}
	if special != nil && special.IsClosed {
		out := *closedDay
		out.Special = special
		return &out, nil
	}

	regular := pickWeeklyRule(workingDays, model.DayOfWeekFor(day), collaboratorID)

	window := &DayWindow{Regular: regular, Special: special}
	if regular != nil {
		window.OpenTime = regular.OpenTime
		window.CloseTime = regular.CloseTime
	}
	if special != nil && special.HasWindow() {
		window.OpenTime = *special.OpenTime
		window.CloseTime = *special.CloseTime
	}
	if window.OpenTime == "" || window.CloseTime == "" {
		return closedDay, nil
	}
	return window, nil
}

// pickWeeklyRule selects the rule governing the weekday. Collaborator
// rules win over the establishment default; within each level the first
// match wins, mirroring the uniqueness expectation on
// (establishment, collaborator, day_of_week).
func pickWeeklyRule(rules []*model.WorkingDay, day model.DayOfWeek, collaboratorID *uuid.UUID) *model.WorkingDay {
	if collaboratorID != nil {
		for _, r := range rules {
			if r.DayOfWeek == day && r.CollaboratorID != nil && *r.CollaboratorID == *collaboratorID {
				return r
			}
		}
	}
	for _, r := range rules {
		if r.DayOfWeek == day && r.CollaboratorID == nil {
			return r
		}
	}
	return nil
}

func (s *Service) workingDays(ctx context.Context, establishmentID uuid.UUID, cached bool) ([]*model.WorkingDay, error) {
	key := establishmentID.String()
	if cached {
		if hit, ok := s.cache.Get(key); ok {
			return hit.([]*model.WorkingDay), nil
		}
	}

	days, err := s.repo.FindWorkingDays(ctx, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load working days: %w", err)
	}
	s.cache.SetDefault(key, days)
	return days, nil
}

// Invalidate drops the cached weekly rules for an establishment. Admin
// surfaces call this after editing working hours.
func (s *Service) Invalidate(establishmentID uuid.UUID) {
	s.cache.Delete(establishmentID.String())
}
