package memory

import (
	"context"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type reportRepository struct {
	t *table[model.Report]
}

func NewReportRepository() repository.ReportRepository {
	return &reportRepository{t: newTable[model.Report]("Report")}
}

func (r *reportRepository) Create(ctx context.Context, rep *model.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	*rep = r.t.insert(func(id int64) model.Report {
		row := *rep
		row.ID, row.CreatedAt, row.UpdatedAt = id, now, now
		return row
	})
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id int64) (*model.Report, error) {
	rep, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// Update writes the triage fields only.
func (r *reportRepository) Update(ctx context.Context, rep *model.Report) error {
	row, err := r.t.update(rep.ID, func(cur *model.Report) error {
		cur.Status = rep.Status
		cur.Priority = rep.Priority
		cur.AdminNotes = rep.AdminNotes
		cur.DateUpdated = rep.DateUpdated
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}
	*rep = row
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	return r.t.remove(id)
}

func (r *reportRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.Report], error) {
	if err := ctx.Err(); err != nil {
		return listing.Page[*model.Report]{}, err
	}
	return listRows[model.Report, *model.Report](r.t, q), nil
}

func (r *reportRepository) Stats(ctx context.Context) (*model.ReportStats, error) {
	stats := &model.ReportStats{ByType: map[string]int{}}
	for _, rep := range r.t.snapshot() {
		stats.Total++
		switch rep.Status {
		case model.ReportStatusUnresolved:
			stats.Unresolved++
		case model.ReportStatusInProgress:
			stats.InProgress++
		case model.ReportStatusResolved:
			stats.Resolved++
		}
		if rep.Priority == "high" {
			stats.HighPriority++
		}
		stats.ByType[rep.Type]++
	}
	return stats, nil
}
