package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

// ClaimLease is how long a claimed event may stay in processing before
// another claimer may take it over.
const ClaimLease = 5 * time.Minute

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	event.Status = model.OutboxStatusPending
	err := r.db.QueryRowxContext(ctx, query, event.ID, event.EventType, []byte(event.Payload), event.Status).
		Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return storeError("create outbox event", "Outbox event", err)
	}
	return nil
}

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		UPDATE outbox_events SET status = 'processing', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = 'pending'
			   OR (status = 'processing' AND updated_at < $2)
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, error_message, retry_count,
			created_at, processed_at, updated_at
	`
	events := []*model.OutboxEvent{}
	if err := r.db.SelectContext(ctx, &events, query, limit, time.Now().Add(-ClaimLease)); err != nil {
		return nil, storeError("claim outbox events", "Outbox event", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events
		SET status = 'processed', processed_at = NOW(), error_message = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return storeError("mark outbox event processed", "Outbox event", err)
	}
	return expectRow(res, "mark outbox event processed", "Outbox event")
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retry bool) error {
	status := model.OutboxStatusFailed
	if retry {
		status = model.OutboxStatusPending
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events
		SET status = $1, error_message = $2, retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $3
	`, status, errMsg, id)
	if err != nil {
		return storeError("mark outbox event failed", "Outbox event", err)
	}
	return expectRow(res, "mark outbox event failed", "Outbox event")
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE status = 'processed'
		AND processed_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, storeError("delete processed events", "Outbox event", err)
	}

	return result.RowsAffected()
}
