package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
)

// SurgeryAdapter implements the SurgeryRepository interface
type SurgeryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSurgeryAdapter creates a new surgery adapter
func NewSurgeryAdapter(client *postgres.Client) repositories.SurgeryRepository {
	return &SurgeryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a surgery by ID
func (a *SurgeryAdapter) GetByID(ctx context.Context, id string) (*entities.Surgery, error) {
	query, args, err := a.db.Select(
		"id", "patient_id", "type", "date", "created_at", "updated_at",
	).From("surgeries").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	surgery := &entities.Surgery{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&surgery.ID,
		&surgery.PatientID,
		&surgery.Type,
		&surgery.Date,
		&surgery.CreatedAt,
		&surgery.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("surgery with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get surgery", err)
	}
	return surgery, nil
}
