package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/repositories"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
)

// FollowUpAdapter implements the FollowUpRepository interface
type FollowUpAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFollowUpAdapter creates a new follow-up adapter
func NewFollowUpAdapter(client *postgres.Client) repositories.FollowUpRepository {
	return &FollowUpAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var followUpColumns = []interface{}{
	"id", "patient_id", "surgery_id", "day_number", "scheduled_date",
	"status", "sent_at", "responded_at", "created_at", "updated_at",
}

// GetByID retrieves a follow-up by ID
func (a *FollowUpAdapter) GetByID(ctx context.Context, id string) (*entities.FollowUp, error) {
	query, args, err := a.db.Select(followUpColumns...).
		From("follow_ups").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	followUp, err := scanFollowUp(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("follow-up with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get follow-up", err)
	}
	return followUp, nil
}

// FindActiveByPatient returns the patient's routable follow-up. When several
// are open the most recently scheduled day wins, so a late answer to an old
// day never shadows today's check-in.
func (a *FollowUpAdapter) FindActiveByPatient(ctx context.Context, patientID string) (*entities.FollowUp, error) {
	query, args, err := a.db.Select(followUpColumns...).
		From("follow_ups").
		Where(goqu.Ex{
			"patient_id": patientID,
			"status":     []string{string(entities.FollowUpStatusSent), string(entities.FollowUpStatusPending), string(entities.FollowUpStatusInProgress)},
		}).
		Order(goqu.I("scheduled_date").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	followUp, err := scanFollowUp(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find active follow-up", err)
	}
	return followUp, nil
}

// ListDuePending returns pending follow-ups whose scheduled time has passed
func (a *FollowUpAdapter) ListDuePending(ctx context.Context, now time.Time) ([]*entities.FollowUp, error) {
	query, args, err := a.db.Select(followUpColumns...).
		From("follow_ups").
		Where(
			goqu.Ex{"status": string(entities.FollowUpStatusPending)},
			goqu.I("scheduled_date").Lte(now),
		).
		Order(goqu.I("scheduled_date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.list(ctx, query, args)
}

// ListInProgress returns follow-ups currently mid-questionnaire
func (a *FollowUpAdapter) ListInProgress(ctx context.Context) ([]*entities.FollowUp, error) {
	query, args, err := a.db.Select(followUpColumns...).
		From("follow_ups").
		Where(goqu.Ex{"status": string(entities.FollowUpStatusInProgress)}).
		Order(goqu.I("updated_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.list(ctx, query, args)
}

// Update persists status transitions and timestamps
func (a *FollowUpAdapter) Update(ctx context.Context, followUp *entities.FollowUp) error {
	record := goqu.Record{
		"status":       string(followUp.Status),
		"sent_at":      followUp.SentAt,
		"responded_at": followUp.RespondedAt,
		"updated_at":   followUp.UpdatedAt,
	}

	query, args, err := a.db.Update("follow_ups").
		Set(record).
		Where(goqu.Ex{"id": followUp.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update follow-up", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("follow-up with id %s not found", followUp.ID))
	}
	return nil
}

func (a *FollowUpAdapter) list(ctx context.Context, query string, args []interface{}) ([]*entities.FollowUp, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query follow-ups", err)
	}
	defer rows.Close()

	var followUps []*entities.FollowUp
	for rows.Next() {
		followUp, err := scanFollowUp(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan follow-up", err)
		}
		followUps = append(followUps, followUp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate follow-ups", err)
	}
	return followUps, nil
}

func scanFollowUp(row rowScanner) (*entities.FollowUp, error) {
	followUp := &entities.FollowUp{}
	var sentAt, respondedAt sql.NullTime

	err := row.Scan(
		&followUp.ID,
		&followUp.PatientID,
		&followUp.SurgeryID,
		&followUp.DayNumber,
		&followUp.ScheduledDate,
		&followUp.Status,
		&sentAt,
		&respondedAt,
		&followUp.CreatedAt,
		&followUp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if sentAt.Valid {
		followUp.SentAt = &sentAt.Time
	}
	if respondedAt.Valid {
		followUp.RespondedAt = &respondedAt.Time
	}
	return followUp, nil
}
