package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/saloonly/booking-api/internal/model"
)

func (r *serviceRepository) FindActiveServices(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT id, establishment_id, description, price, duration, active, created_at, updated_at
		FROM services
		WHERE id = ANY($1)
		AND active = TRUE
		ORDER BY description ASC
	`
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, query, pq.Array(strIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to find active services: %w", err)
	}
	return services, nil
}
