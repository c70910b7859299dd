package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, data, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.Data, n.IsRead).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return storeError("create notification", "Notification", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, data, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	out := []*model.Notification{}
	if err := r.db.SelectContext(ctx, &out, query, userID, limit); err != nil {
		return nil, storeError("list notifications", "Notification", err)
	}
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storeError("mark notification read", "Notification", err)
	}
	return expectRow(res, "mark notification read", "Notification")
}
