package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// New wires every repository onto db.
func New(db *sqlx.DB) *repository.Store {
	base := NewBaseRepository(db)
	return &repository.Store{
		Programs:         NewProgramRepository(base),
		Reports:          NewReportRepository(base),
		AidRequests:      NewAidRequestRepository(base),
		EmergencyReports: NewEmergencyReportRepository(base),
		Users:            NewUserRepository(base),
		Notifications:    NewNotificationRepository(base),
		Outbox:           NewOutboxRepository(base),
		Ping:             db.PingContext,
		Close:            db.Close,
	}
}

// storeError maps a driver error onto the application taxonomy.
func storeError(op, resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound(resource, err)
	}
	return apperrors.NewUnavailable(op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// expectRow turns an UPDATE or DELETE that touched nothing into NotFound.
func expectRow(res sql.Result, op, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewUnavailable(op, err)
	}
	if n == 0 {
		return apperrors.NewNotFound(resource, sql.ErrNoRows)
	}
	return nil
}

// listPage runs the count and page queries of q. The page query is skipped
// when the requested page starts past the last match.
func listPage[T any](ctx context.Context, db *sqlx.DB, q listing.Query, columns string) (listing.Page[T], error) {
	selectSQL, countSQL, selectArgs, countArgs := q.SelectSQL(columns)
	op := fmt.Sprintf("list %s", q.Resource.Name)

	var total int
	if err := db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return listing.Page[T]{}, apperrors.NewUnavailable(op, err)
	}

	items := make([]T, 0, q.Page.PerPage)
	if offset := q.Page.Offset(); offset >= 0 && total > offset {
		if err := db.SelectContext(ctx, &items, selectSQL, selectArgs...); err != nil {
			return listing.Page[T]{}, apperrors.NewUnavailable(op, err)
		}
	}
	return listing.NewPage(items, total, q.Page), nil
}

type keyCount struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// countBy groups table rows by column, skipping nulls.
func countBy(ctx context.Context, db *sqlx.DB, table, column string) (map[string]int, error) {
	query := fmt.Sprintf(
		`SELECT %[2]s AS key, COUNT(*) AS count FROM %[1]s WHERE %[2]s IS NOT NULL GROUP BY %[2]s`,
		table, column,
	)
	var rows []keyCount
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Count
	}
	return out, nil
}
