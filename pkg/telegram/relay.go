package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rescuenet/rescuenet-api/pkg/messaging"
	"github.com/rescuenet/rescuenet-api/pkg/metrics"
	"github.com/rs/zerolog"
)

// EventNotificationCreated is the outbox event type the relay forwards.
const EventNotificationCreated = "notification.created"

// NotificationEvent is the payload of a notification.created event.
type NotificationEvent struct {
	NotificationID int64                  `json:"notification_id"`
	UserID         int64                  `json:"user_id"`
	Type           string                 `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// Recipient is the Telegram linkage of a user.
type Recipient struct {
	ChatID string
	Linked bool
}

// ErrRecipientNotFound is returned by a RecipientStore for unknown users.
var ErrRecipientNotFound = errors.New("recipient not found")

type RecipientStore interface {
	Recipient(ctx context.Context, userID int64) (*Recipient, error)
}

// Relay forwards notification events to the linked Telegram chat of their user.
type Relay struct {
	sender     Sender
	recipients RecipientStore
	metrics    *metrics.Metrics
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewRelay(sender Sender, recipients RecipientStore, m *metrics.Metrics, logger *zerolog.Logger) *Relay {
	if m == nil {
		m = metrics.Nop()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Relay{
		sender:     sender,
		recipients: recipients,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Run consumes the notifications channel until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, broker messaging.Broker) error {
	err := messaging.Consume(ctx, broker, messaging.NotificationsChannel, r.Handle, r.logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handle delivers one message. Messages of other types and users without a
// linked chat are skipped without error.
func (r *Relay) Handle(ctx context.Context, msg messaging.Message) error {
	if msg.Type != EventNotificationCreated {
		return nil
	}

	var event NotificationEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		r.metrics.TelegramMessages.WithLabelValues("invalid").Inc()
		return fmt.Errorf("decode notification event: %w", err)
	}

	log := r.logger.With().
		Int64("user_id", event.UserID).
		Int64("notification_id", event.NotificationID).
		Str("type", event.Type).
		Logger()

	recipient, err := r.recipients.Recipient(ctx, event.UserID)
	if errors.Is(err, ErrRecipientNotFound) {
		log.Warn().Msg("User not found for notification")
		r.metrics.TelegramMessages.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		r.metrics.TelegramMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("load recipient: %w", err)
	}
	if recipient.ChatID == "" || !recipient.Linked {
		log.Debug().Msg("Telegram not linked, skipping")
		r.metrics.TelegramMessages.WithLabelValues("skipped").Inc()
		return nil
	}

	data := event.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["title"]; !ok && event.Title != "" {
		data["title"] = event.Title
	}
	if _, ok := data["description"]; !ok && event.Message != "" {
		data["description"] = event.Message
	}

	sent, err := r.sender.SendMessage(ctx, recipient.ChatID, Format(event.Type, data, r.now()))
	if err != nil {
		r.metrics.TelegramMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("send telegram message: %w", err)
	}

	r.metrics.TelegramMessages.WithLabelValues("sent").Inc()
	log.Info().Int64("message_id", sent.MessageID).Msg("Telegram message sent")
	return nil
}
