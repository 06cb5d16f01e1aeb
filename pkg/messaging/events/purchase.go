// Package events holds the concrete event payloads published by the bot.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/savastore/whatsbot/pkg/messaging"
)

// PurchaseCompletedEvent is emitted when a conversation reaches checkout and
// the cart is settled. Total is a decimal string to keep the amount exact on
// the wire.
type PurchaseCompletedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	CallerID    string    `json:"caller_id"`
	Items       []string  `json:"items"`
	Total       string    `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e PurchaseCompletedEvent) Subject() string {
	return messaging.PurchasesCompletedSubject
}

func (e PurchaseCompletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
