package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/model"
)

func (r *scheduleRepository) FindWorkingDays(ctx context.Context, establishmentID uuid.UUID) ([]*model.WorkingDay, error) {
	query := `
		SELECT id, establishment_id, collaborator_id, day_of_week, open_time, close_time
		FROM working_days
		WHERE establishment_id = $1
		ORDER BY day_of_week, collaborator_id NULLS FIRST
	`
	var days []*model.WorkingDay
	err := r.db.SelectContext(ctx, &days, query, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find working days: %w", err)
	}
	return days, nil
}

func (r *scheduleRepository) FindSpecialDates(ctx context.Context, establishmentID uuid.UUID, from, to time.Time) ([]*model.SpecialDate, error) {
	query := `
		SELECT id, establishment_id, date, is_closed, open_time, close_time
		FROM special_dates
		WHERE establishment_id = $1
		AND date >= $2
		AND date <= $3
		ORDER BY date ASC
	`
	var dates []*model.SpecialDate
	err := r.db.SelectContext(ctx, &dates, query, establishmentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find special dates: %w", err)
	}
	return dates, nil
}
