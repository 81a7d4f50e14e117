package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/config"
)

const msgUnsupportedKind = "No momento só consigo entender mensagens de texto. 😊\n" +
	"Por favor, responda com uma mensagem escrita."

// ConversationRouter routes one inbound patient text through the follow-up
// state machine
type ConversationRouter interface {
	HandleIncomingText(ctx context.Context, from string, text string) error
}

// WhatsAppWebhookHandler handles Meta's webhook callbacks: the one-time GET
// verification handshake and the POST message notifications.
type WhatsAppWebhookHandler struct {
	conversations ConversationRouter
	ledger        providers.MessageLedger
	messenger     providers.Messenger
	cfg           *config.WhatsAppConfig
}

// NewWhatsAppWebhookHandler creates a new webhook handler
func NewWhatsAppWebhookHandler(
	conversations ConversationRouter,
	ledger providers.MessageLedger,
	messenger providers.Messenger,
	cfg *config.WhatsAppConfig,
) *WhatsAppWebhookHandler {
	return &WhatsAppWebhookHandler{
		conversations: conversations,
		ledger:        ledger,
		messenger:     messenger,
		cfg:           cfg,
	}
}

// webhookPayload is the subset of Meta's notification envelope this service
// consumes
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string       `json:"field"`
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	MessagingProduct string `json:"messaging_product"`
	Metadata         struct {
		DisplayPhoneNumber string `json:"display_phone_number"`
		PhoneNumberID      string `json:"phone_number_id"`
	} `json:"metadata"`
	Messages []webhookMessage `json:"messages"`
}

type webhookMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply,omitempty"`
	} `json:"interactive,omitempty"`
}

// HandleVerification answers Meta's GET subscription handshake
func (h *WhatsAppWebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.cfg.VerifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	log.Warn().Str("mode", mode).Msg("webhook verification rejected")
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleWebhook processes incoming message notifications. It always answers
// 200 so Meta does not retry for application-level failures; redelivery of
// transport failures is absorbed by the message ledger.
func (h *WhatsAppWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("undecodable webhook payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "" && change.Field != "messages" {
				continue
			}
			for _, message := range change.Value.Messages {
				h.processMessage(ctx, change.Value, message)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "received"})
}

func (h *WhatsAppWebhookHandler) processMessage(ctx context.Context, value webhookValue, message webhookMessage) {
	// The same app can receive webhooks for several numbers; only ours counts
	if message.From == "" || value.Metadata.PhoneNumberID != h.cfg.PhoneNumberID {
		return
	}
	// Echoes of our own outbound messages come back with our number as sender
	if message.From == value.Metadata.PhoneNumberID {
		return
	}

	first, err := h.ledger.Register(ctx, message.ID)
	if err != nil {
		log.Error().Err(err).Str("message_id", message.ID).Msg("message ledger unavailable")
		return
	}
	if !first {
		log.Debug().Str("message_id", message.ID).Msg("duplicate webhook delivery ignored")
		return
	}

	if err := h.messenger.MarkRead(ctx, message.ID); err != nil {
		log.Debug().Err(err).Str("message_id", message.ID).Msg("failed to mark message read")
	}

	text, ok := extractText(message)
	if !ok {
		log.Info().Str("type", message.Type).Str("from", message.From).Msg("unsupported inbound message kind")
		if err := h.messenger.SendText(ctx, message.From, msgUnsupportedKind); err != nil {
			log.Warn().Err(err).Msg("failed to send orientation reply")
		}
		return
	}

	if err := h.conversations.HandleIncomingText(ctx, message.From, text); err != nil {
		log.Error().Err(err).Str("from", message.From).Str("message_id", message.ID).Msg("failed to process inbound message")
	}
}

// extractText normalizes text bodies and interactive replies into plain text
func extractText(message webhookMessage) (string, bool) {
	switch message.Type {
	case "text":
		if message.Text == nil {
			return "", false
		}
		body := strings.TrimSpace(message.Text.Body)
		return body, body != ""
	case "interactive":
		if message.Interactive == nil {
			return "", false
		}
		if reply := message.Interactive.ButtonReply; reply != nil {
			return strings.TrimSpace(reply.Title), true
		}
		if reply := message.Interactive.ListReply; reply != nil {
			return strings.TrimSpace(reply.Title), true
		}
		return "", false
	}
	return "", false
}
