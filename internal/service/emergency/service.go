package emergency

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
)

// Emergency reports have no Rejected state.
var validStatuses = map[string]bool{
	model.EmergencyStatusSubmitted: true,
	model.EmergencyStatusInProcess: true,
	model.EmergencyStatusCompleted: true,
}

type Service struct {
	repo     repository.EmergencyReportRepository
	notifier notification.Notifier
	logger   *zerolog.Logger
}

func NewService(repo repository.EmergencyReportRepository, notifier notification.Notifier, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Submit(ctx context.Context, userID int64, req model.CreateEmergencyReportRequest) (*model.EmergencyReport, error) {
	e := &model.EmergencyReport{
		UserID:           userID,
		IncidentType:     req.IncidentType,
		Description:      req.Description,
		IncidentLocation: req.IncidentLocation,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		IncidentPhoto:    req.IncidentPhoto,
		Status:           model.EmergencyStatusSubmitted,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create emergency report: %w", err)
	}

	s.logger.Info().
		Int64("emergency_report_id", e.ID).
		Int64("user_id", userID).
		Str("incident_type", e.IncidentType).
		Msg("Emergency report submitted")
	return e, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64, p listing.Params) (listing.Page[*model.EmergencyReport], error) {
	return s.list(ctx, listing.NewQuery(listing.EmergencyReports, p).Scope("user_id", userID))
}

func (s *Service) List(ctx context.Context, p listing.Params) (listing.Page[*model.EmergencyReport], error) {
	return s.list(ctx, listing.NewQuery(listing.EmergencyReports, p))
}

func (s *Service) list(ctx context.Context, q listing.Query) (listing.Page[*model.EmergencyReport], error) {
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list emergency reports: %w", err)
	}
	return page, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string, remarks *string, adminID int64) (*model.EmergencyReport, error) {
	if !validStatuses[status] {
		return nil, apperrors.Validation("status", "The selected status is invalid.")
	}

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get emergency report: %w", err)
	}
	oldStatus := e.Status

	e.Status = status
	if remarks != nil {
		e.AdminRemarks = remarks
	}
	e.AdminID = &adminID
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update emergency report: %w", err)
	}

	if oldStatus != status {
		notification.NotifyOrLog(ctx, s.notifier, s.logger, &model.Notification{
			UserID:  e.UserID,
			Type:    model.NotificationReportStatus,
			Title:   "Emergency report status updated",
			Message: fmt.Sprintf("Your %s report is now %s.", e.IncidentType, status),
			Data: model.JSONMap{
				"report_id":   e.ID,
				"report_type": e.IncidentType,
				"old_status":  oldStatus,
				"new_status":  status,
				"location":    e.IncidentLocation,
			},
		})
	}
	return e, nil
}
