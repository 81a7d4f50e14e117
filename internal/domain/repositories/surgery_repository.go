package repositories

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// SurgeryRepository defines the interface for surgery data operations
type SurgeryRepository interface {
	// GetByID retrieves a surgery by ID
	GetByID(ctx context.Context, id string) (*entities.Surgery, error)
}
