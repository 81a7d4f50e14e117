package repositories

import (
	"context"
	"time"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// ResponseRepository defines the interface for questionnaire response records
type ResponseRepository interface {
	// LatestByFollowUp returns the most recent response record for a
	// follow-up, or nil when none exists yet
	LatestByFollowUp(ctx context.Context, followUpID string) (*entities.FollowUpResponse, error)

	// Create inserts a new response record
	Create(ctx context.Context, response *entities.FollowUpResponse) error

	// Update persists answer progress, clinical results and conversation turns
	Update(ctx context.Context, response *entities.FollowUpResponse) error

	// MarkDoctorAlerted flags the record once the clinician has been notified
	MarkDoctorAlerted(ctx context.Context, responseID string, at time.Time) error
}
