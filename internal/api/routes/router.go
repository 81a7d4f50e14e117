package routes

import (
	"net/http"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/api/handlers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/api/middleware"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	webhookHandler *handlers.WhatsAppWebhookHandler
	sseHandler     *handlers.SSEHandler
	serverCfg      *config.ServerConfig
}

// NewRouter creates a new router
func NewRouter(webhookHandler *handlers.WhatsAppWebhookHandler, sseHandler *handlers.SSEHandler, serverCfg *config.ServerConfig) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		webhookHandler: webhookHandler,
		sseHandler:     sseHandler,
		serverCfg:      serverCfg,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Meta's verification handshake and message notifications share one path
	r.mux.HandleFunc("GET /api/webhooks/whatsapp", r.webhookHandler.HandleVerification)
	r.mux.HandleFunc("POST /api/webhooks/whatsapp", r.webhookHandler.HandleWebhook)

	// Live dashboard feed, only available when the event bus is up
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/followups", r.sseHandler.StreamFollowUpUpdates)
	}

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// CORS outermost so the dashboard's SSE requests get headers everywhere
	handler = middleware.CORSMiddleware(r.serverCfg.AllowedOrigins)(handler)

	return handler
}
