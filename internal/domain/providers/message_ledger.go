package providers

import "context"

// MessageLedger defines the interface for inbound message deduplication.
// WhatsApp redelivers webhooks, so every provider message ID is registered
// before processing.
type MessageLedger interface {
	// Register records a message ID and reports whether this is the first
	// time it has been seen
	Register(ctx context.Context, messageID string) (first bool, err error)
}
