package memory

import (
	"context"
	"sort"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type notificationRepository struct {
	t *table[model.Notification]
}

func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{t: newTable[model.Notification]("Notification")}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	*n = r.t.insert(func(id int64) model.Notification {
		row := *n
		row.ID, row.CreatedAt = id, now
		if row.Data == nil {
			row.Data = model.JSONMap{}
		}
		return row
	})
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	out := []*model.Notification{}
	for _, n := range r.t.snapshot() {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	_, err := r.t.update(id, func(cur *model.Notification) error {
		if cur.UserID != userID {
			return r.t.notFound()
		}
		cur.IsRead = true
		return nil
	})
	return err
}
