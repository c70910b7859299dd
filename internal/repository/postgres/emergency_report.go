package postgres

import (
	"context"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
)

const emergencyReportColumns = `id, user_id, incident_type, description, incident_location, latitude,
	longitude, incident_photo, status, admin_remarks, admin_id, created_at, updated_at`

type emergencyReportRepository struct {
	BaseRepository
}

func NewEmergencyReportRepository(base BaseRepository) repository.EmergencyReportRepository {
	return &emergencyReportRepository{base}
}

func (r *emergencyReportRepository) Create(ctx context.Context, e *model.EmergencyReport) error {
	query := `
		INSERT INTO emergency_reports (
			user_id, incident_type, description, incident_location,
			latitude, longitude, incident_photo, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		e.UserID, e.IncidentType, e.Description, e.IncidentLocation,
		e.Latitude, e.Longitude, e.IncidentPhoto, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return storeError("create emergency report", "Emergency report", err)
	}
	return nil
}

func (r *emergencyReportRepository) Get(ctx context.Context, id int64) (*model.EmergencyReport, error) {
	var e model.EmergencyReport
	query := `SELECT ` + emergencyReportColumns + ` FROM emergency_reports WHERE id = $1`
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, storeError("get emergency report", "Emergency report", err)
	}
	return &e, nil
}

func (r *emergencyReportRepository) Update(ctx context.Context, e *model.EmergencyReport) error {
	query := `
		UPDATE emergency_reports SET
			status = $1, admin_remarks = $2, admin_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, e.Status, e.AdminRemarks, e.AdminID, e.ID).Scan(&e.UpdatedAt)
	if err != nil {
		return storeError("update emergency report", "Emergency report", err)
	}
	return nil
}

func (r *emergencyReportRepository) List(ctx context.Context, q listing.Query) (listing.Page[*model.EmergencyReport], error) {
	return listPage[*model.EmergencyReport](ctx, r.db, q, emergencyReportColumns)
}

func (r *emergencyReportRepository) CountOpenByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM emergency_reports WHERE user_id = $1 AND status <> $2`
	if err := r.db.GetContext(ctx, &n, query, userID, model.EmergencyStatusCompleted); err != nil {
		return 0, storeError("count emergency reports", "Emergency report", err)
	}
	return n, nil
}
