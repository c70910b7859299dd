// Package memory keeps every repository in process. It backs the "memory"
// database driver and the HTTP tests.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

// New returns an empty store.
func New() *repository.Store {
	return &repository.Store{
		Programs:         NewProgramRepository(),
		Reports:          NewReportRepository(),
		AidRequests:      NewAidRequestRepository(),
		EmergencyReports: NewEmergencyReportRepository(),
		Users:            NewUserRepository(),
		Notifications:    NewNotificationRepository(),
		Outbox:           NewOutboxRepository(),
		Ping:             func(context.Context) error { return nil },
		Close:            func() error { return nil },
	}
}

// table holds rows by id. Rows are stored and returned by value so callers
// never share memory with the table.
type table[T any] struct {
	mu       sync.RWMutex
	resource string
	rows     map[int64]T
	seq      int64
}

func newTable[T any](resource string) *table[T] {
	return &table[T]{resource: resource, rows: make(map[int64]T)}
}

func (t *table[T]) notFound() error {
	return apperrors.NewNotFound(t.resource, sql.ErrNoRows)
}

func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	row := build(t.seq)
	t.rows[t.seq] = row
	return row
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound()
	}
	return row, nil
}

// update applies fn to a copy of row id and stores the result.
func (t *table[T]) update(id int64, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, t.notFound()
	}
	if err := fn(&row); err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = row
	return row, nil
}

func (t *table[T]) remove(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return t.notFound()
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) snapshot() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row)
	}
	return out
}

func (t *table[T]) count(match func(T) bool) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, row := range t.rows {
		if match(row) {
			n++
		}
	}
	return n
}

// listRows runs q over a snapshot of t.
func listRows[T any, P interface {
	*T
	listing.Record
}](t *table[T], q listing.Query) listing.Page[P] {
	rows := t.snapshot()
	ptrs := make([]P, len(rows))
	for i := range rows {
		ptrs[i] = P(&rows[i])
	}
	return listing.Run(q, ptrs)
}
