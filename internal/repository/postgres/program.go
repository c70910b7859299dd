package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

const programColumns = `id, title, description, category, program_type, aid_amount, criteria,
	start_date, end_date, status, admin_id, admin_remarks, created_at, updated_at`

type programRepository struct {
	BaseRepository
}

func NewProgramRepository(base BaseRepository) repository.ProgramRepository {
	return &programRepository{base}
}

func (r *programRepository) Create(ctx context.Context, p *model.Program) error {
	query := `
		INSERT INTO bantuan_programs (
			title, description, category, program_type, aid_amount, criteria,
			start_date, end_date, status, admin_id, admin_remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.Title, p.Description, p.Category, p.ProgramType, p.AidAmount, p.Criteria,
		p.StartDate, p.EndDate, p.Status, p.AdminID, p.AdminRemarks,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return storeError("create program", "Program", err)
	}
	return nil
}

func (r *programRepository) Get(ctx context.Context, id int64) (*model.Program, error) {
	var p model.Program
	query := `SELECT ` + programColumns + ` FROM bantuan_programs WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, storeError("get program", "Program", err)
	}
	return &p, nil
}

func (r *programRepository) Update(ctx context.Context, p *model.Program) error {
	query := `
		UPDATE bantuan_programs SET
			title = $1, description = $2, category = $3, program_type = $4,
			aid_amount = $5, criteria = $6, start_date = $7, end_date = $8,
			status = $9, admin_id = $10, admin_remarks = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.Title, p.Description, p.Category, p.ProgramType,
		p.AidAmount, p.Criteria, p.StartDate, p.EndDate,
		p.Status, p.AdminID, p.AdminRemarks, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return storeError("update program", "Program", err)
	}
	return nil
}

func (r *programRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bantuan_programs WHERE id = $1`, id)
	if err != nil {
		return storeError("delete program", "Program", err)
	}
	return expectRow(res, "delete program", "Program")
}

func (r *programRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.Program], error) {
	return listPage[*model.Program](ctx, r.db, q, programColumns)
}

func (r *programRepository) Stats(ctx context.Context) (*model.ProgramStats, error) {
	var row struct {
		Total       int      `db:"total"`
		Active      int      `db:"active"`
		Inactive    int      `db:"inactive"`
		MinAmount   *float64 `db:"min_amount"`
		MaxAmount   *float64 `db:"max_amount"`
		AvgAmount   *float64 `db:"avg_amount"`
		TotalAmount float64  `db:"total_amount"`
	}
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'Active') AS active,
			COUNT(*) FILTER (WHERE status = 'Inactive') AS inactive,
			MIN(aid_amount) AS min_amount,
			MAX(aid_amount) AS max_amount,
			AVG(aid_amount) AS avg_amount,
			COALESCE(SUM(aid_amount), 0) AS total_amount
		FROM bantuan_programs
	`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, storeError("program stats", "Program", err)
	}

	byCategory, err := countBy(ctx, r.db, "bantuan_programs", "category")
	if err != nil {
		return nil, storeError("program stats", "Program", err)
	}
	byType, err := countBy(ctx, r.db, "bantuan_programs", "program_type")
	if err != nil {
		return nil, storeError("program stats", "Program", err)
	}

	return &model.ProgramStats{
		Total:       row.Total,
		Active:      row.Active,
		Inactive:    row.Inactive,
		ByCategory:  byCategory,
		ByType:      byType,
		MinAmount:   row.MinAmount,
		MaxAmount:   row.MaxAmount,
		AvgAmount:   row.AvgAmount,
		TotalAmount: row.TotalAmount,
	}, nil
}
