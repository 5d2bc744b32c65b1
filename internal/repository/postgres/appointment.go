package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/saloonly/booking-api/internal/model"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
	"github.com/saloonly/booking-api/pkg/messaging"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

// pqSerializationFailure is SQLSTATE 40001, raised when a serializable
// transaction loses a conflict race. It surfaces as a retryable
// booking conflict rather than an internal failure.
const pqSerializationFailure = "40001"

const appointmentColumns = `
	id, establishment_id, collaborator_id, user_id,
	guest_name, guest_email, guest_phone, service_ids,
	appointment_date, day_of_week, open_time, close_time,
	status, created_at, updated_at`

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE 1=1`
	var args []interface{}
	argCount := 1

	if filters.EstablishmentID != nil {
		query += fmt.Sprintf(" AND establishment_id = $%d", argCount)
		args = append(args, *filters.EstablishmentID)
		argCount++
	}
	if filters.CollaboratorID != nil {
		query += fmt.Sprintf(" AND collaborator_id = $%d", argCount)
		args = append(args, *filters.CollaboratorID)
		argCount++
	}
	if filters.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filters.UserID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.DateFrom != nil {
		query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		query += fmt.Sprintf(" AND appointment_date <= $%d", argCount)
		args = append(args, *filters.DateTo)
		argCount++
	}

	filters.Pagination.Normalize()
	query += fmt.Sprintf(" ORDER BY appointment_date ASC, open_time ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Pagination.PageSize, filters.Pagination.Offset())

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus persists the transition and records the status-changed
// event in the same transaction. The transition is re-validated after
// the row lock is taken: two concurrent transitions serialize here, and
// the loser is rejected instead of overwriting a terminal status.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var appointment model.Appointment
	err = tx.GetContext(ctx, &appointment,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("appointment")
	}
	if err != nil {
		return fmt.Errorf("failed to load appointment: %w", err)
	}
	if !appointment.Status.CanTransitionTo(status) {
		return apperrors.New(apperrors.ErrBadRequest,
			"cannot transition appointment from %s to %s", appointment.Status, status)
	}

	previous := appointment.Status
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`,
		status, now, id); err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	appointment.Status = status
	appointment.UpdatedAt = now
	event := model.AppointmentEvent{Appointment: &appointment, PreviousStatus: previous}
	if err := insertOutboxEvent(ctx, tx, messaging.ChannelAppointmentStatusChanged, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

func (r *appointmentRepository) FindOccupied(ctx context.Context, collaboratorIDs []uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	return findOccupied(ctx, r.db, collaboratorIDs, from, to)
}

// queryer covers both *sqlx.DB and *sqlx.Tx so the occupied-interval
// lookup can run inside the booking transaction.
type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func findOccupied(ctx context.Context, q queryer, collaboratorIDs []uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE collaborator_id = ANY($1)
		AND appointment_date >= $2
		AND appointment_date <= $3
		AND status IN ('PENDING', 'CONFIRMED')
		ORDER BY appointment_date ASC, open_time ASC
	`
	strIDs := make([]string, len(collaboratorIDs))
	for i, id := range collaboratorIDs {
		strIDs[i] = id.String()
	}

	var appointments []*model.Appointment
	err := q.SelectContext(ctx, &appointments, query, pq.Array(strIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find occupied appointments: %w", err)
	}
	return appointments, nil
}

// CreateBatch inserts the batch inside a single SERIALIZABLE transaction.
// Occupied intervals are re-read and re-checked inside the transaction, so
// the validate-then-insert sequence cannot silently double-book: of two
// concurrent overlapping batches one commits and the other either fails
// the in-tx re-check or aborts with a serialization failure. Both surface
// as a retryable conflict.
func (r *appointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) ([]*model.Appointment, error) {
	if len(appointments) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	collaboratorID := appointments[0].CollaboratorID
	from, to := appointments[0].AppointmentDate, appointments[0].AppointmentDate
	for _, apt := range appointments[1:] {
		if apt.AppointmentDate.Before(from) {
			from = apt.AppointmentDate
		}
		if apt.AppointmentDate.After(to) {
			to = apt.AppointmentDate
		}
	}

	occupied, err := findOccupied(ctx, tx, []uuid.UUID{collaboratorID}, from, to)
	if err != nil {
		return nil, err
	}
	for _, apt := range appointments {
		for _, existing := range occupied {
			if !existing.AppointmentDate.Equal(apt.AppointmentDate) {
				continue
			}
			if overlapsRow(apt, existing) {
				return nil, apperrors.New(apperrors.ErrBookingConflict,
					"collaborator already booked on %s between %s and %s",
					timeutil.DateKey(apt.AppointmentDate), existing.OpenTime, existing.CloseTime)
			}
		}
	}

	insert := `
		INSERT INTO appointments (
			id, establishment_id, collaborator_id, user_id,
			guest_name, guest_email, guest_phone, service_ids,
			appointment_date, day_of_week, open_time, close_time,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	now := time.Now().UTC()
	for _, apt := range appointments {
		apt.CreatedAt = now
		apt.UpdatedAt = now
		_, err := tx.ExecContext(ctx, insert,
			apt.ID,
			apt.EstablishmentID,
			apt.CollaboratorID,
			apt.UserID,
			apt.GuestName,
			apt.GuestEmail,
			apt.GuestPhone,
			apt.ServiceIDs,
			apt.AppointmentDate,
			apt.DayOfWeek,
			apt.OpenTime,
			apt.CloseTime,
			apt.Status,
			apt.CreatedAt,
			apt.UpdatedAt,
		)
		if err != nil {
			return nil, wrapTxError(err, "failed to create appointment")
		}

		event := model.AppointmentEvent{Appointment: apt}
		if err := insertOutboxEvent(ctx, tx, messaging.ChannelAppointmentCreated, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapTxError(err, "failed to commit appointments")
	}
	return appointments, nil
}

func wrapTxError(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqSerializationFailure {
		return apperrors.Wrap(apperrors.ErrBookingConflict, err, "slot was booked by a concurrent request")
	}
	return fmt.Errorf("%s: %w", message, err)
}

func overlapsRow(a, b *model.Appointment) bool {
	return timeutil.Overlaps(a.OpenTime, a.CloseTime, b.OpenTime, b.CloseTime)
}
