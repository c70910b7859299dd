package memory

import (
	"context"
	"math"
	"time"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

type programRepository struct {
	t *table[model.Program]
}

func NewProgramRepository() repository.ProgramRepository {
	return &programRepository{t: newTable[model.Program]("Program")}
}

func (r *programRepository) Create(ctx context.Context, p *model.Program) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	*p = r.t.insert(func(id int64) model.Program {
		row := *p
		row.ID, row.CreatedAt, row.UpdatedAt = id, now, now
		return row
	})
	return nil
}

func (r *programRepository) Get(ctx context.Context, id int64) (*model.Program, error) {
	p, err := r.t.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programRepository) Update(ctx context.Context, p *model.Program) error {
	row, err := r.t.update(p.ID, func(cur *model.Program) error {
		created := cur.CreatedAt
		*cur = *p
		cur.CreatedAt = created
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}
	*p = row
	return nil
}

func (r *programRepository) Delete(ctx context.Context, id int64) error {
	return r.t.remove(id)
}

func (r *programRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.Program], error) {
	if err := ctx.Err(); err != nil {
		return listing.Page[*model.Program]{}, err
	}
	return listRows[model.Program, *model.Program](r.t, q), nil
}

func (r *programRepository) Stats(ctx context.Context) (*model.ProgramStats, error) {
	stats := &model.ProgramStats{ByCategory: map[string]int{}, ByType: map[string]int{}}
	var (
		n          int
		minV, maxV = math.Inf(1), math.Inf(-1)
	)
	for _, p := range r.t.snapshot() {
		stats.Total++
		switch p.Status {
		case model.ProgramStatusActive:
			stats.Active++
		case model.ProgramStatusInactive:
			stats.Inactive++
		}
		if p.Category != nil {
			stats.ByCategory[*p.Category]++
		}
		if p.ProgramType != nil {
			stats.ByType[*p.ProgramType]++
		}
		if p.AidAmount != nil {
			n++
			stats.TotalAmount += *p.AidAmount
			minV = math.Min(minV, *p.AidAmount)
			maxV = math.Max(maxV, *p.AidAmount)
		}
	}
	if n > 0 {
		avg := stats.TotalAmount / float64(n)
		stats.MinAmount, stats.MaxAmount, stats.AvgAmount = &minV, &maxV, &avg
	}
	return stats, nil
}
