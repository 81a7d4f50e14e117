package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/api/handlers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
)

type stubEventBus struct {
	events       chan *entities.FollowUpEvent
	subscribed   []string
	unsubscribed []string
	subscribeErr error
}

func (b *stubEventBus) Publish(_ context.Context, _ string, _ *entities.FollowUpEvent) error {
	return nil
}

func (b *stubEventBus) Subscribe(_ context.Context, channel string) (<-chan *entities.FollowUpEvent, error) {
	if b.subscribeErr != nil {
		return nil, b.subscribeErr
	}
	b.subscribed = append(b.subscribed, channel)
	return b.events, nil
}

func (b *stubEventBus) Unsubscribe(_ context.Context, channel string) error {
	b.unsubscribed = append(b.unsubscribed, channel)
	return nil
}

func (b *stubEventBus) Close() error { return nil }

func TestSSEStreamDeliversFollowUpEvents(t *testing.T) {
	bus := &stubEventBus{events: make(chan *entities.FollowUpEvent, 1)}
	handler := handlers.NewSSEHandler(bus)

	// A buffered then closed channel lets the handler drain and return
	bus.events <- entities.NewFollowUpEvent(
		entities.FollowUpEventRedFlag, "pat-1", "fu-1", 3, entities.RiskCritical)
	close(bus.events)

	req := httptest.NewRequest("GET", "/api/stream/followups", nil)
	w := httptest.NewRecorder()

	handler.StreamFollowUpUpdates(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: followup.red_flag")
	assert.Contains(t, body, `"follow_up_id":"fu-1"`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	require.Len(t, bus.subscribed, 1)
	assert.Equal(t, "followups:updates", bus.subscribed[0])
	// Subscriber cleanup is per-client inside the bus; tearing down the whole
	// channel would drop every other connected dashboard
	assert.Empty(t, bus.unsubscribed)
}

func TestSSEStreamNarrowsToDoctorChannel(t *testing.T) {
	bus := &stubEventBus{events: make(chan *entities.FollowUpEvent)}
	handler := handlers.NewSSEHandler(bus)
	close(bus.events)

	req := httptest.NewRequest("GET", "/api/stream/followups?doctor_id=doc-1", nil)
	w := httptest.NewRecorder()

	handler.StreamFollowUpUpdates(w, req)

	require.Len(t, bus.subscribed, 1)
	assert.Equal(t, "doctor:doc-1", bus.subscribed[0])
}
