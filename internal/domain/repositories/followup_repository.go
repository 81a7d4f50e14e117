package repositories

import (
	"context"
	"time"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// FollowUpRepository defines the interface for follow-up encounter data
type FollowUpRepository interface {
	// GetByID retrieves a follow-up by ID
	GetByID(ctx context.Context, id string) (*entities.FollowUp, error)

	// FindActiveByPatient returns the patient's routable follow-up, the one
	// with the most recent scheduled time among status sent or pending.
	// Returns nil when the patient has none.
	FindActiveByPatient(ctx context.Context, patientID string) (*entities.FollowUp, error)

	// ListDuePending returns pending follow-ups whose scheduled time has
	// passed as of now.
	ListDuePending(ctx context.Context, now time.Time) ([]*entities.FollowUp, error)

	// ListInProgress returns follow-ups currently mid-questionnaire,
	// candidates for the stall sweep.
	ListInProgress(ctx context.Context) ([]*entities.FollowUp, error)

	// Update persists status transitions and timestamps
	Update(ctx context.Context, followUp *entities.FollowUp) error
}
