package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

const aidRequestColumns = `id, user_id, aid_type, household_size, income_level, supporting_notes,
	status, admin_remarks, admin_id, submitted_at, created_at, updated_at`

type aidRequestRepository struct {
	BaseRepository
}

func NewAidRequestRepository(base BaseRepository) repository.AidRequestRepository {
	return &aidRequestRepository{base}
}

func (r *aidRequestRepository) Create(ctx context.Context, a *model.AidRequest) error {
	query := `
		INSERT INTO aid_requests (
			user_id, aid_type, household_size, income_level, supporting_notes, status, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		a.UserID, a.AidType, a.HouseholdSize, a.IncomeLevel, a.SupportingNotes, a.Status, a.SubmittedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return storeError("create aid request", "Aid request", err)
	}
	return nil
}

func (r *aidRequestRepository) Get(ctx context.Context, id int64) (*model.AidRequest, error) {
	var a model.AidRequest
	query := `SELECT ` + aidRequestColumns + ` FROM aid_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, storeError("get aid request", "Aid request", err)
	}
	return &a, nil
}

func (r *aidRequestRepository) Update(ctx context.Context, a *model.AidRequest) error {
	query := `
		UPDATE aid_requests SET
			status = $1, admin_remarks = $2, admin_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, a.Status, a.AdminRemarks, a.AdminID, a.ID).Scan(&a.UpdatedAt)
	if err != nil {
		return storeError("update aid request", "Aid request", err)
	}
	return nil
}

func (r *aidRequestRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.AidRequest], error) {
	return listPage[*model.AidRequest](ctx, r.db, q, aidRequestColumns)
}

func (r *aidRequestRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM aid_requests WHERE user_id = $1`, userID); err != nil {
		return 0, storeError("count aid requests", "Aid request", err)
	}
	return n, nil
}
