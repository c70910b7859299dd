package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/telegram"
)

// DefaultListLimit bounds the notifications returned to a user.
const DefaultListLimit = 50

// Notifier records a notification for a user.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

type Service struct {
	repo   repository.NotificationRepository
	outbox repository.OutboxRepository
	users  repository.UserRepository
	logger *zerolog.Logger
}

func NewService(repo repository.NotificationRepository, outbox repository.OutboxRepository, users repository.UserRepository, logger *zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		users:  users,
		logger: logger,
	}
}

// Notify stores n and queues a notification.created event for delivery.
func (s *Service) Notify(ctx context.Context, n *model.Notification) error {
	if n.Data == nil {
		n.Data = model.JSONMap{}
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	event, err := model.NewOutboxEvent(telegram.EventNotificationCreated, telegram.NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		Data:           n.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to build outbox event: %w", err)
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	s.logger.Debug().
		Int64("notification_id", n.ID).
		Int64("user_id", n.UserID).
		Str("type", n.Type).
		Str("event_id", event.ID.String()).
		Msg("Notification queued")
	return nil
}

// Broadcast notifies every active resident and returns how many were reached.
func (s *Service) Broadcast(ctx context.Context, req model.BroadcastRequest) (int, error) {
	ids, err := s.users.ListIDsByRole(ctx, model.RoleResident)
	if err != nil {
		return 0, fmt.Errorf("failed to list residents: %w", err)
	}

	sent := 0
	for _, id := range ids {
		data := model.JSONMap{}
		for k, v := range req.Data {
			data[k] = v
		}
		err := s.Notify(ctx, &model.Notification{
			UserID:  id,
			Type:    req.Type,
			Title:   req.Title,
			Message: req.Message,
			Data:    data,
		})
		if err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// Recipients resolves Telegram chats from user accounts for the relay.
type Recipients struct {
	users repository.UserRepository
}

func NewRecipients(users repository.UserRepository) *Recipients {
	return &Recipients{users: users}
}

func (r *Recipients) Recipient(ctx context.Context, userID int64) (*telegram.Recipient, error) {
	u, err := r.users.Get(ctx, userID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, telegram.ErrRecipientNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := &telegram.Recipient{Linked: u.TelegramLinked}
	if u.TelegramChatID != nil {
		rec.ChatID = *u.TelegramChatID
	}
	return rec, nil
}

// NotifyOrLog is shared by the status services: a failed notification never
// fails the status change that triggered it.
func NotifyOrLog(ctx context.Context, n Notifier, logger *zerolog.Logger, notification *model.Notification) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, notification); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).
			Int64("user_id", notification.UserID).
			Str("type", notification.Type).
			Msg("Failed to queue notification")
	}
}
