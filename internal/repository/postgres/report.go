package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

const reportColumns = `id, title, type, location, description, status, priority, reporter_name,
	reporter_ic, reporter_contact, date_reported, date_updated, admin_notes, image_url, user_id,
	created_at, updated_at`

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{base}
}

func (r *reportRepository) Create(ctx context.Context, rep *model.Report) error {
	query := `
		INSERT INTO reports (
			title, type, location, description, status, priority, reporter_name,
			reporter_ic, reporter_contact, date_reported, admin_notes, image_url, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rep.Title, rep.Type, rep.Location, rep.Description, rep.Status, rep.Priority, rep.ReporterName,
		rep.ReporterIC, rep.ReporterContact, rep.DateReported, rep.AdminNotes, rep.ImageURL, rep.UserID,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return storeError("create report", "Report", err)
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id int64) (*model.Report, error) {
	var rep model.Report
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	if err := r.db.GetContext(ctx, &rep, query, id); err != nil {
		return nil, storeError("get report", "Report", err)
	}
	return &rep, nil
}

func (r *reportRepository) Update(ctx context.Context, rep *model.Report) error {
	query := `
		UPDATE reports SET
			status = $1, priority = $2, admin_notes = $3, date_updated = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		rep.Status, rep.Priority, rep.AdminNotes, rep.DateUpdated, rep.ID,
	).Scan(&rep.UpdatedAt)
	if err != nil {
		return storeError("update report", "Report", err)
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return storeError("delete report", "Report", err)
	}
	return expectRow(res, "delete report", "Report")
}

func (r *reportRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.Report], error) {
	return listPage[*model.Report](ctx, r.db, q, reportColumns)
}

func (r *reportRepository) Stats(ctx context.Context) (*model.ReportStats, error) {
	var row struct {
		Total        int `db:"total"`
		Unresolved   int `db:"unresolved"`
		InProgress   int `db:"in_progress"`
		Resolved     int `db:"resolved"`
		HighPriority int `db:"high_priority"`
	}
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'unresolved') AS unresolved,
			COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'resolved') AS resolved,
			COUNT(*) FILTER (WHERE priority = 'high') AS high_priority
		FROM reports
	`
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, storeError("report stats", "Report", err)
	}

	byType, err := countBy(ctx, r.db, "reports", "type")
	if err != nil {
		return nil, storeError("report stats", "Report", err)
	}

	return &model.ReportStats{
		Total:        row.Total,
		Unresolved:   row.Unresolved,
		InProgress:   row.InProgress,
		Resolved:     row.Resolved,
		HighPriority: row.HighPriority,
		ByType:       byType,
	}, nil
}
