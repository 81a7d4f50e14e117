package providers

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// Messenger defines the interface for outbound WhatsApp delivery
type Messenger interface {
	// SendText sends a free-form text message to a phone number
	SendText(ctx context.Context, to string, body string) error

	// SendTemplate sends a pre-approved template message
	SendTemplate(ctx context.Context, to string, templateName string, languageCode string, params []string) error

	// MarkRead marks an inbound message as read. Best effort.
	MarkRead(ctx context.Context, messageID string) error

	// SendDoctorAlert notifies the responsible clinician about a concerning
	// questionnaire result
	SendDoctorAlert(ctx context.Context, alert DoctorAlert) error
}

// DoctorAlert carries everything the clinician-facing message needs
type DoctorAlert struct {
	DoctorPhone string
	DoctorName  string
	PatientName string
	SurgeryType entities.SurgeryType
	DayNumber   int
	RiskLevel   entities.RiskLevel
	RedFlags    []string
	Stalled     bool
}
