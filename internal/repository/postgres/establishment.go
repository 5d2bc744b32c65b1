package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/model"
	apperrors "github.com/saloonly/booking-api/pkg/errors"
)

func (r *establishmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Establishment, error) {
	query := `
		SELECT id, name, email, phone, address, description, created_at, updated_at
		FROM establishments
		WHERE id = $1
	`
	var establishment model.Establishment
	err := r.db.GetContext(ctx, &establishment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("establishment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get establishment: %w", err)
	}
	return &establishment, nil
}

func (r *collaboratorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Collaborator, error) {
	query := `
		SELECT id, establishment_id, name, email, status, created_at, updated_at
		FROM collaborators
		WHERE id = $1
	`
	var collaborator model.Collaborator
	err := r.db.GetContext(ctx, &collaborator, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("collaborator")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collaborator: %w", err)
	}
	return &collaborator, nil
}

func (r *collaboratorRepository) List(ctx context.Context, establishmentID uuid.UUID, filter *uuid.UUID) ([]*model.Collaborator, error) {
	query := `
		SELECT id, establishment_id, name, email, status, created_at, updated_at
		FROM collaborators
		WHERE establishment_id = $1
	`
	args := []interface{}{establishmentID}
	if filter != nil {
		query += " AND id = $2"
		args = append(args, *filter)
	}
	query += " ORDER BY created_at ASC"

	var collaborators []*model.Collaborator
	err := r.db.SelectContext(ctx, &collaborators, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return collaborators, nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, name, email, phone
		FROM users
		WHERE id = $1
	`
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
