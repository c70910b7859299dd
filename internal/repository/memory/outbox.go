package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

// ClaimLease matches the postgres driver: a processing event older than
// this may be claimed again.
const ClaimLease = 5 * time.Minute

type outboxRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]model.OutboxEvent
	now    func() time.Time
}

func NewOutboxRepository() repository.OutboxRepository {
	return &outboxRepository{
		events: make(map[uuid.UUID]model.OutboxEvent),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := r.now()
	event.Status = model.OutboxStatusPending
	event.CreatedAt, event.UpdatedAt = now, now
	r.events[event.ID] = *event
	return nil
}

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stale := now.Add(-ClaimLease)
	var ready []model.OutboxEvent
	for _, e := range r.events {
		if e.Status == model.OutboxStatusPending ||
			(e.Status == model.OutboxStatusProcessing && e.UpdatedAt.Before(stale)) {
			ready = append(ready, e)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].CreatedAt.Before(ready[j].CreatedAt) })
	if limit > 0 && len(ready) > limit {
		ready = ready[:limit]
	}

	out := make([]*model.OutboxEvent, 0, len(ready))
	for _, e := range ready {
		e.Status = model.OutboxStatusProcessing
		e.UpdatedAt = now
		r.events[e.ID] = e
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (r *outboxRepository) set(id uuid.UUID, fn func(*model.OutboxEvent)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return apperrors.NewNotFound("Outbox event", sql.ErrNoRows)
	}
	fn(&e)
	e.UpdatedAt = r.now()
	r.events[id] = e
	return nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	return r.set(id, func(e *model.OutboxEvent) {
		now := r.now()
		e.Status = model.OutboxStatusProcessed
		e.ProcessedAt = &now
		e.ErrorMessage = nil
	})
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retry bool) error {
	return r.set(id, func(e *model.OutboxEvent) {
		e.Status = model.OutboxStatusFailed
		if retry {
			e.Status = model.OutboxStatusPending
		}
		e.ErrorMessage = &errMsg
		e.RetryCount++
	})
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, e := range r.events {
		if e.Status == model.OutboxStatusProcessed && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.events, id)
			n++
		}
	}
	return n, nil
}
