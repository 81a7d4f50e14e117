package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/retry"
)

// WhatsAppCloudSender sends messages via WhatsApp Cloud API
type WhatsAppCloudSender struct {
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	baseURL       string
	retryConfig   retry.Config
}

// NewWhatsAppCloudSender creates a new WhatsApp sender
func NewWhatsAppCloudSender(cfg *config.WhatsAppConfig) (*WhatsAppCloudSender, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("WhatsApp access token and phone number ID must be set")
	}

	return &WhatsAppCloudSender{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     "https://graph.facebook.com/" + cfg.APIVersion,
		retryConfig: retry.DefaultConfig(),
	}, nil
}

// WhatsAppTemplateMessage represents a template message
type WhatsAppTemplateMessage struct {
	MessagingProduct string                      `json:"messaging_product"`
	RecipientType    string                      `json:"recipient_type"`
	To               string                      `json:"to"`
	Type             string                      `json:"type"`
	Template         WhatsAppTemplateMessageBody `json:"template"`
}

// WhatsAppTemplateMessageBody represents the template body
type WhatsAppTemplateMessageBody struct {
	Name       string                             `json:"name"`
	Language   WhatsAppLanguage                   `json:"language"`
	Components []WhatsAppTemplateMessageComponent `json:"components,omitempty"`
}

// WhatsAppLanguage represents the language code
type WhatsAppLanguage struct {
	Code string `json:"code"`
}

// WhatsAppTemplateMessageComponent represents a template component
type WhatsAppTemplateMessageComponent struct {
	Type       string                             `json:"type"`
	Parameters []WhatsAppTemplateMessageParameter `json:"parameters"`
}

// WhatsAppTemplateMessageParameter represents a template parameter
type WhatsAppTemplateMessageParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// WhatsAppTextMessage represents a text message
type WhatsAppTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// WhatsAppReadReceipt marks an inbound message as read
type WhatsAppReadReceipt struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// WhatsAppResponse represents the API response
type WhatsAppResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText sends a free-form text message
func (w *WhatsAppCloudSender) SendText(ctx context.Context, to string, body string) error {
	message := WhatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	message.Text.Body = body

	_, err := w.sendWithRetry(ctx, message)
	return err
}

// SendTemplate sends a pre-approved template message
func (w *WhatsAppCloudSender) SendTemplate(ctx context.Context, to string, templateName string, languageCode string, params []string) error {
	var components []WhatsAppTemplateMessageComponent
	if len(params) > 0 {
		parameters := make([]WhatsAppTemplateMessageParameter, len(params))
		for i, param := range params {
			parameters[i] = WhatsAppTemplateMessageParameter{
				Type: "text",
				Text: param,
			}
		}
		components = append(components, WhatsAppTemplateMessageComponent{
			Type:       "body",
			Parameters: parameters,
		})
	}

	message := WhatsAppTemplateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "template",
		Template: WhatsAppTemplateMessageBody{
			Name:       templateName,
			Language:   WhatsAppLanguage{Code: languageCode},
			Components: components,
		},
	}

	_, err := w.sendWithRetry(ctx, message)
	return err
}

// MarkRead marks an inbound message as read. Not retried; a lost read
// receipt costs nothing.
func (w *WhatsAppCloudSender) MarkRead(ctx context.Context, messageID string) error {
	receipt := WhatsAppReadReceipt{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}
	_, err := w.post(ctx, receipt)
	return err
}

// SendDoctorAlert notifies the responsible clinician about a concerning result
func (w *WhatsAppCloudSender) SendDoctorAlert(ctx context.Context, alert providers.DoctorAlert) error {
	if alert.DoctorPhone == "" {
		return apperrors.NewValidationError("doctor has no phone number registered")
	}
	return w.SendText(ctx, alert.DoctorPhone, formatDoctorAlert(alert))
}

func formatDoctorAlert(alert providers.DoctorAlert) string {
	var b strings.Builder

	if alert.Stalled {
		b.WriteString("⚠️ *ALERTA: paciente sem resposta*\n\n")
	} else {
		b.WriteString("🚨 *ALERTA DE FOLLOW-UP*\n\n")
	}
	fmt.Fprintf(&b, "Paciente: %s\n", alert.PatientName)
	fmt.Fprintf(&b, "Cirurgia: %s\n", alert.SurgeryType)
	fmt.Fprintf(&b, "Dia pós-operatório: D+%d\n", alert.DayNumber)
	fmt.Fprintf(&b, "Nível de risco: *%s*\n", strings.ToUpper(string(alert.RiskLevel)))

	if len(alert.RedFlags) > 0 {
		b.WriteString("\nSinais de alerta:\n")
		for _, flag := range alert.RedFlags {
			fmt.Fprintf(&b, "• %s\n", flag)
		}
	} else if alert.Stalled {
		b.WriteString("\nO paciente iniciou o questionário mas parou de responder.\n")
	}

	return b.String()
}

func (w *WhatsAppCloudSender) sendWithRetry(ctx context.Context, message interface{}) (string, error) {
	var messageID string
	err := retry.Do(ctx, w.retryConfig, func() error {
		id, err := w.post(ctx, message)
		if err != nil {
			return err
		}
		messageID = id
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("whatsapp send failed, retrying")
	})
	return messageID, err
}

func (w *WhatsAppCloudSender) post(ctx context.Context, payload interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.NewInternalError("failed to marshal message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", apperrors.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewExternalError("failed to reach WhatsApp API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewExternalError("failed to read WhatsApp response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewExternalError(
			fmt.Sprintf("WhatsApp API error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var whatsappResp WhatsAppResponse
	if err := json.Unmarshal(body, &whatsappResp); err != nil {
		return "", apperrors.NewExternalError("failed to unmarshal WhatsApp response", err)
	}

	if len(whatsappResp.Messages) > 0 {
		return whatsappResp.Messages[0].ID, nil
	}
	return "", nil
}

var _ providers.Messenger = (*WhatsAppCloudSender)(nil)
