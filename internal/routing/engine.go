package routing

import (
	"context"
	"fmt"
	"strings"

	"smsbridge/internal/monday"
	"smsbridge/pkg/logging"
)

// Outcome is the terminal result of routing one inbound message. Outcomes
// exist for observability and tests; nothing is persisted between messages.
type Outcome string

const (
	OutcomeMatchedUpdatePosted     Outcome = "matched_update_posted"
	OutcomeMatchedUpdateFailed     Outcome = "matched_update_failed"
	OutcomeFallbackSent            Outcome = "fallback_sent"
	OutcomeFallbackSkippedNoTarget Outcome = "fallback_skipped_no_target"
	OutcomeNoRecipientsConfigured  Outcome = "no_recipients_configured"
	OutcomeMalformedInput          Outcome = "malformed_input"
)

// InboundMessage is one webhook's worth of SMS payload.
type InboundMessage struct {
	From string
	Body string
}

// Config carries the routing-relevant configuration for a single message.
// It is rebuilt per request so recipient or board changes apply immediately.
type Config struct {
	BoardID            string
	PhoneColumnID      string
	Recipients         []string
	FallbackTargetID   string
	FallbackTargetType string
}

// workboard is the slice of the monday client the engine depends on.
type workboard interface {
	FindContactByNumber(ctx context.Context, boardID, phoneColumnID, rawNumber string) (*monday.ContactMatch, error)
	PostUpdate(ctx context.Context, itemID, senderLabel, message string) (string, error)
	CreateNotification(ctx context.Context, userID, targetID, targetType, text string) error
	AddSubscribers(ctx context.Context, itemID string, userIDs []string) error
}

// Engine decides, per inbound SMS, whether the message lands as an update on
// a matched contact item or as direct fallback notifications.
type Engine struct {
	board  workboard
	logger *logging.Logger
}

// NewEngine creates a routing engine.
func NewEngine(board workboard, logger *logging.Logger) *Engine {
	if board == nil {
		panic("routing: workboard client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{board: board, logger: logger}
}

// Route runs the full routing decision for one message. It never returns an
// error: every collaborator failure is logged and folded into the outcome so
// the webhook transport can always acknowledge success.
func (e *Engine) Route(ctx context.Context, cfg Config, msg InboundMessage) Outcome {
	if msg.From == "" || msg.Body == "" {
		e.logger.Warn("routing: missing sender or body in inbound message")
		return OutcomeMalformedInput
	}

	if len(cfg.Recipients) == 0 {
		e.logger.Error("routing: no recipient user ids configured")
		return OutcomeNoRecipientsConfigured
	}

	match, err := e.board.FindContactByNumber(ctx, cfg.BoardID, cfg.PhoneColumnID, msg.From)
	if err != nil {
		e.logger.Error("routing: contact lookup failed, treating as no match", "error", err)
		match = nil
	}

	if match != nil && match.ItemID != "" {
		return e.routeMatched(ctx, cfg, msg, match)
	}
	return e.routeFallback(ctx, cfg, msg)
}

// routeMatched posts the message as an update on the matched item. The
// update feed is the notification surface once a contact exists, so no
// direct notifications are sent on this path.
func (e *Engine) routeMatched(ctx context.Context, cfg Config, msg InboundMessage, match *monday.ContactMatch) Outcome {
	label := msg.From
	if match.Name != "" {
		label = fmt.Sprintf("%s (%s)", match.Name, msg.From)
	}

	// Best-effort: a failed subscription must not block the update.
	if err := e.board.AddSubscribers(ctx, match.ItemID, cfg.Recipients); err != nil {
		e.logger.Error("routing: failed to subscribe recipients, posting update anyway",
			"error", err, "item_id", match.ItemID)
	}

	updateID, err := e.board.PostUpdate(ctx, match.ItemID, label, msg.Body)
	if err != nil {
		e.logger.Error("routing: failed to post update", "error", err, "item_id", match.ItemID)
		return OutcomeMatchedUpdateFailed
	}

	e.logger.Info("routing: update posted for matched contact",
		"item_id", match.ItemID, "update_id", updateID)
	return OutcomeMatchedUpdatePosted
}

// routeFallback notifies every configured recipient directly. Recipients are
// attempted sequentially and independently; one failure never stops delivery
// to the rest, and per-recipient results are logged, not aggregated.
func (e *Engine) routeFallback(ctx context.Context, cfg Config, msg InboundMessage) Outcome {
	targetType := strings.TrimSpace(cfg.FallbackTargetType)
	if cfg.FallbackTargetID == "" || targetType == "" {
		e.logger.Info("routing: fallback target not configured, skipping notification",
			"target_configured", cfg.FallbackTargetID != "")
		return OutcomeFallbackSkippedNoTarget
	}

	text := fmt.Sprintf("New SMS from %s:\n\n%s", msg.From, msg.Body)
	for _, recipient := range cfg.Recipients {
		if err := e.board.CreateNotification(ctx, recipient, cfg.FallbackTargetID, targetType, text); err != nil {
			e.logger.Error("routing: fallback notification failed", "error", err, "user_id", recipient)
			continue
		}
		e.logger.Info("routing: fallback notification sent", "user_id", recipient)
	}
	return OutcomeFallbackSent
}
