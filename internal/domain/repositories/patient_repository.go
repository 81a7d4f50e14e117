package repositories

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id string) (*entities.Patient, error)

	// FindByPhone resolves a patient from a raw WhatsApp phone number.
	// Matching is digit-based and tolerant of country-code and formatting
	// differences. Returns nil when no patient matches.
	FindByPhone(ctx context.Context, phone string) (*entities.Patient, error)
}
