package memory

import (
	"context"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type aidRequestRepository struct {
	t *table[model.AidRequest]
}

func NewAidRequestRepository() repository.AidRequestRepository {
	return &aidRequestRepository{t: newTable[model.AidRequest]("Aid request")}
}

func (r *aidRequestRepository) Create(ctx context.Context, a *model.AidRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	*a = r.t.insert(func(id int64) model.AidRequest {
		row := *a
		row.ID, row.CreatedAt, row.UpdatedAt = id, now, now
		if row.SubmittedAt.IsZero() {
			row.SubmittedAt = now
		}
		return row
	})
	return nil
}

func (r *aidRequestRepository) Get(ctx context.Context, id int64) (*model.AidRequest, error) {
	a, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *aidRequestRepository) Update(ctx context.Context, a *model.AidRequest) error {
	row, err := r.t.update(a.ID, func(cur *model.AidRequest) error {
		cur.Status = a.Status
		cur.AdminRemarks = a.AdminRemarks
		cur.AdminID = a.AdminID
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}
	*a = row
	return nil
}

func (r *aidRequestRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.AidRequest], error) {
	if err := ctx.Err(); err != nil {
		return listing.Page[*model.AidRequest]{}, err
	}
	return listRows[model.AidRequest, *model.AidRequest](r.t, q), nil
}

func (r *aidRequestRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	return r.t.count(func(a model.AidRequest) bool { return a.UserID == userID }), nil
}
