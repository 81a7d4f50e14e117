package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/entities"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/retry"
)

func newTestSender(server *httptest.Server) *WhatsAppCloudSender {
	return &WhatsAppCloudSender{
		accessToken:   "test_token",
		phoneNumberID: "123456789",
		httpClient:    server.Client(),
		baseURL:       server.URL,
		retryConfig: retry.Config{
			MaxAttempts:   2,
			InitialDelay:  time.Millisecond,
			MaxDelay:      time.Millisecond,
			BackoffFactor: 1.0,
		},
	}
}

func okResponse() WhatsAppResponse {
	return WhatsAppResponse{
		MessagingProduct: "whatsapp",
		Messages: []struct {
			ID string `json:"id"`
		}{
			{ID: "wamid.test123"},
		},
	}
}

func TestNewWhatsAppCloudSender(t *testing.T) {
	tests := []struct {
		name          string
		accessToken   string
		phoneNumberID string
		wantErr       bool
	}{
		{
			name:          "Valid credentials",
			accessToken:   "test_token",
			phoneNumberID: "123456789",
			wantErr:       false,
		},
		{
			name:          "Missing access token",
			accessToken:   "",
			phoneNumberID: "123456789",
			wantErr:       true,
		},
		{
			name:          "Missing phone number ID",
			accessToken:   "test_token",
			phoneNumberID: "",
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewWhatsAppCloudSender(&config.WhatsAppConfig{
				AccessToken:   tt.accessToken,
				PhoneNumberID: tt.phoneNumberID,
				APIVersion:    "v21.0",
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewWhatsAppCloudSender() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && sender == nil {
				t.Error("NewWhatsAppCloudSender() returned nil sender")
			}
		})
	}
}

func TestWhatsAppCloudSender_SendText(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockStatusCode int
		wantErr        bool
	}{
		{
			name:           "Successful text send",
			body:           "Como você está se sentindo hoje?",
			mockStatusCode: http.StatusOK,
			wantErr:        false,
		},
		{
			name:           "API rate limit error",
			body:           "Test message",
			mockStatusCode: http.StatusTooManyRequests,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "POST" {
					t.Errorf("Expected POST request, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("Expected Content-Type: application/json, got %s", r.Header.Get("Content-Type"))
				}

				w.WriteHeader(tt.mockStatusCode)
				if err := json.NewEncoder(w).Encode(okResponse()); err != nil {
					t.Errorf("failed to encode mock response: %v", err)
				}
			}))
			defer server.Close()

			err := newTestSender(server).SendText(context.Background(), "+5511999990000", tt.body)
			if (err != nil) != tt.wantErr {
				t.Errorf("SendText() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWhatsAppCloudSender_SendText_RetriesTransientFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(okResponse())
	}))
	defer server.Close()

	err := newTestSender(server).SendText(context.Background(), "+5511999990000", "oi")
	if err != nil {
		t.Errorf("SendText() after retry error = %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestWhatsAppCloudSender_SendTemplate(t *testing.T) {
	var captured WhatsAppTemplateMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(okResponse())
	}))
	defer server.Close()

	err := newTestSender(server).SendTemplate(
		context.Background(), "+5511999990000",
		"followup_day_intro", "pt_BR", []string{"Maria", "1"},
	)
	if err != nil {
		t.Errorf("SendTemplate() error = %v", err)
	}
	if captured.Template.Name != "followup_day_intro" {
		t.Errorf("expected template name followup_day_intro, got %s", captured.Template.Name)
	}
	if len(captured.Template.Components) != 1 || len(captured.Template.Components[0].Parameters) != 2 {
		t.Error("expected one body component with two parameters")
	}
}

func TestWhatsAppCloudSender_MarkRead(t *testing.T) {
	var captured WhatsAppReadReceipt
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(WhatsAppResponse{})
	}))
	defer server.Close()

	if err := newTestSender(server).MarkRead(context.Background(), "wamid.abc"); err != nil {
		t.Errorf("MarkRead() error = %v", err)
	}
	if captured.Status != "read" || captured.MessageID != "wamid.abc" {
		t.Errorf("unexpected read receipt: %+v", captured)
	}
}

func TestWhatsAppCloudSender_SendDoctorAlert(t *testing.T) {
	var captured WhatsAppTextMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(okResponse())
	}))
	defer server.Close()

	err := newTestSender(server).SendDoctorAlert(context.Background(), providers.DoctorAlert{
		DoctorPhone: "+5511988880000",
		PatientName: "João Silva",
		SurgeryType: entities.SurgeryHemorrhoidectomy,
		DayNumber:   3,
		RiskLevel:   entities.RiskCritical,
		RedFlags:    []string{"Febre de 39.5°C", "Sangramento ativo intenso"},
	})
	if err != nil {
		t.Errorf("SendDoctorAlert() error = %v", err)
	}

	if captured.To != "+5511988880000" {
		t.Errorf("alert sent to %s", captured.To)
	}
	for _, want := range []string{"João Silva", "D+3", "CRITICAL", "Febre de 39.5°C"} {
		if !strings.Contains(captured.Text.Body, want) {
			t.Errorf("alert body missing %q:\n%s", want, captured.Text.Body)
		}
	}
}

func TestWhatsAppCloudSender_SendDoctorAlert_NoPhone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	err := newTestSender(server).SendDoctorAlert(context.Background(), providers.DoctorAlert{
		PatientName: "João Silva",
	})
	if err == nil {
		t.Error("expected error for missing doctor phone")
	}
}
