package database

import (
	"context"
	"time"

	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/domain/providers"
	"github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/internal/infrastructure/clients/postgres"
	apperrors "github.com/joaovitorcunhalimaviana-boop/TelosAi-sub002/pkg/errors"
)

// MessageLedgerAdapter implements the MessageLedger interface on Postgres.
// The unique constraint on message_id makes registration idempotent across
// webhook redeliveries and multiple server instances.
type MessageLedgerAdapter struct {
	client *postgres.Client
}

// NewMessageLedgerAdapter creates a new message ledger adapter
func NewMessageLedgerAdapter(client *postgres.Client) providers.MessageLedger {
	return &MessageLedgerAdapter{client: client}
}

type processedMessage struct {
	MessageID   string    `db:"message_id"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Register records a message ID and reports whether it is new
func (a *MessageLedgerAdapter) Register(ctx context.Context, messageID string) (bool, error) {
	result, err := a.client.DBX().NamedExecContext(ctx,
		`INSERT INTO processed_messages (message_id, processed_at)
		 VALUES (:message_id, :processed_at)
		 ON CONFLICT (message_id) DO NOTHING`,
		processedMessage{MessageID: messageID, ProcessedAt: time.Now().UTC()},
	)
	if err != nil {
		return false, apperrors.NewInternalError("failed to register message", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewInternalError("failed to read registration result", err)
	}
	return rows == 1, nil
}
