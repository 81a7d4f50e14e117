package providers

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// PushNotifier defines the interface for delivering push notifications to
// the clinician's devices
type PushNotifier interface {
	// NotifyDoctor delivers a push notification to every registered device
	// of a doctor. Best effort.
	NotifyDoctor(ctx context.Context, doctorID string, notification *entities.PushNotification) error
}
