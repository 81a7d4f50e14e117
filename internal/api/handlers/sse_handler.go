package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
)

// SSEHandler streams follow-up lifecycle events to clinician dashboards over
// Server-Sent Events
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// StreamFollowUpUpdates handles SSE connections for the live follow-up feed.
// GET /api/stream/followups streams every lifecycle event; an optional
// doctor_id query parameter narrows the stream to one clinician's channel.
func (h *SSEHandler) StreamFollowUpUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	channel := providers.EventChannelFollowUps
	if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
		channel = providers.GetDoctorChannel(doctorID)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to event channel")
		http.Error(w, "subscription failed", http.StatusInternalServerError)
		return
	}
	// The bus drops this subscriber when the request context ends; a
	// channel-wide Unsubscribe here would also kill other clients' streams
	h.sendEvent(w, "connected", map[string]interface{}{
		"channel":   channel,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("channel", channel).Msg("SSE client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// sendEvent sends one SSE frame to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal SSE event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
