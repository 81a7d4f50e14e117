package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsTestHandler(allowedOrigins []string, reached *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
	return CORSMiddleware(allowedOrigins)(next)
}

func TestCORSWildcardOrigin(t *testing.T) {
	var reached bool
	handler := corsTestHandler([]string{"*"}, &reached)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://painel.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, reached)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSEchoesListedOrigin(t *testing.T) {
	var reached bool
	handler := corsTestHandler([]string{"https://painel.example.com"}, &reached)

	req := httptest.NewRequest("GET", "/api/stream/followups", nil)
	req.Header.Set("Origin", "https://painel.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, reached)
	assert.Equal(t, "https://painel.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")
}

func TestCORSOmitsHeaderForUnknownOrigin(t *testing.T) {
	var reached bool
	handler := corsTestHandler([]string{"https://painel.example.com"}, &reached)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://outro.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, reached)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAnswersPreflight(t *testing.T) {
	var reached bool
	handler := corsTestHandler([]string{"*"}, &reached)

	req := httptest.NewRequest(http.MethodOptions, "/api/webhooks/whatsapp", nil)
	req.Header.Set("Origin", "https://painel.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "OPTIONS")
}
