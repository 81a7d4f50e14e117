package providers

import (
	"context"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// follow-up events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.FollowUpEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FollowUpEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Event channel constants
const (
	// EventChannelFollowUps carries every follow-up lifecycle event
	EventChannelFollowUps = "followups:updates"

	// EventChannelDoctorPrefix is the prefix for doctor-specific channels
	EventChannelDoctorPrefix = "doctor:"
)

// GetDoctorChannel returns the channel name for a specific doctor
func GetDoctorChannel(doctorID string) string {
	return EventChannelDoctorPrefix + doctorID
}
