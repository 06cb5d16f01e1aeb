// Package service orchestrates the session store, the dialogue engine and
// event publishing for one inbound message.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/savastore/whatsbot/internal/dialogue"
	"github.com/savastore/whatsbot/internal/session"
	"github.com/savastore/whatsbot/pkg/messaging"
	"github.com/savastore/whatsbot/pkg/messaging/events"
)

// DialogueService processes inbound messages and returns the outbound replies.
type DialogueService interface {
	// Process handles one inbound message for the given caller. Messages from
	// the same caller are strictly serialized in arrival order; distinct
	// callers proceed independently.
	Process(ctx context.Context, callerID, text string) ([]string, error)
}

// Service implements DialogueService on top of a session store and engine.
type Service struct {
	store     session.Store
	engine    *dialogue.Engine
	publisher messaging.Publisher
	logger    *slog.Logger
}

var _ DialogueService = (*Service)(nil)

func NewService(store session.Store, engine *dialogue.Engine, publisher messaging.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		publisher: publisher,
		logger:    logger.With("component", "service"),
	}
}

// Process acquires the caller's session, runs one engine transition and
// commits the replacement. Any unexpected fault releases the session without
// committing, so a failed turn never leaves partial state behind.
func (s *Service) Process(ctx context.Context, callerID, text string) (replies []string, err error) {
	sess, err := s.store.GetOrCreate(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session for caller: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if abortErr := s.store.Abort(ctx, callerID); abortErr != nil {
			s.logger.ErrorContext(ctx, "Failed to release session after fault", "error", abortErr)
		}
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Dialogue fault recovered", "panic", r)
			err = fmt.Errorf("dialogue processing fault: %v", r)
		}
	}()

	result := s.engine.Process(sess, text)

	if err := s.store.Commit(ctx, callerID, result.Session); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}
	committed = true

	if result.Purchase != nil {
		s.publishPurchase(ctx, callerID, result.Purchase)
	}
	return result.Replies, nil
}

// publishPurchase emits the checkout event. Publishing is best-effort: the
// reply to the caller must not fail because the broker is down.
func (s *Service) publishPurchase(ctx context.Context, callerID string, p *dialogue.Purchase) {
	event := events.PurchaseCompletedEvent{
		EventID:     uuid.New(),
		CallerID:    callerID,
		Items:       p.Items,
		Total:       p.Total.StringFixed(2),
		CompletedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish purchase event", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "Purchase completed",
		"items", len(p.Items),
		"total", event.Total,
	)
}
