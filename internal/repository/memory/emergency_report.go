package memory

import (
	"context"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type emergencyReportRepository struct {
	t *table[model.EmergencyReport]
}

func NewEmergencyReportRepository() repository.EmergencyReportRepository {
	return &emergencyReportRepository{t: newTable[model.EmergencyReport]("Emergency report")}
}

func (r *emergencyReportRepository) Create(ctx context.Context, e *model.EmergencyReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	*e = r.t.insert(func(id int64) model.EmergencyReport {
		row := *e
		row.ID, row.CreatedAt, row.UpdatedAt = id, now, now
		return row
	})
	return nil
}

func (r *emergencyReportRepository) Get(ctx context.Context, id int64) (*model.EmergencyReport, error) {
	e, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *emergencyReportRepository) Update(ctx context.Context, e *model.EmergencyReport) error {
	row, err := r.t.update(e.ID, func(cur *model.EmergencyReport) error {
		cur.Status = e.Status
		cur.AdminRemarks = e.AdminRemarks
		cur.AdminID = e.AdminID
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}
	*e = row
	return nil
}

func (r *emergencyReportRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.EmergencyReport], error) {
	if err := ctx.Err(); err != nil {
		return listing.Page[*model.EmergencyReport]{}, err
	}
	return listRows[model.EmergencyReport, *model.EmergencyReport](r.t, q), nil
}

func (r *emergencyReportRepository) CountOpenByUser(ctx context.Context, userID int64) (int, error) {
	return r.t.count(func(e model.EmergencyReport) bool {
		return e.UserID == userID && e.Status != model.EmergencyStatusCompleted
	}), nil
}
