package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/internal/service/notification"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/validator"
)

// Service manages incident reports filed with the reporter's identity.
type Service struct {
	repo     repository.ReportRepository
	notifier notification.Notifier
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewService(repo repository.ReportRepository, notifier notification.Notifier, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create files a report. userID is the submitting resident, if any.
func (s *Service) Create(ctx context.Context, req model.CreateReportRequest, userID *int64) (*model.Report, error) {
	reported, err := time.ParseInLocation(validator.DateTimeLayout, req.DateReported, time.UTC)
	if err != nil {
		return nil, apperrors.Validation("date_reported", "The date reported does not match the format Y-m-d H:i:s.")
	}

	r := &model.Report{
		Title:           req.Title,
		Type:            req.Type,
		Location:        req.Location,
		Description:     req.Description,
		Status:          model.ReportStatusUnresolved,
		Priority:        req.Priority,
		ReporterName:    req.ReporterName,
		ReporterIC:      req.ReporterIC,
		ReporterContact: req.ReporterContact,
		DateReported:    reported,
		AdminNotes:      req.AdminNotes,
		ImageURL:        req.ImageURL,
		UserID:          userID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logger.Info().Int64("report_id", r.ID).Str("type", r.Type).Str("priority", r.Priority).Msg("Report created")
	return r, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Report, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

// Mine lists the reports filed by userID.
func (s *Service) Mine(ctx context.Context, userID int64, p listing.Params) (listing.Page[*model.Report], error) {
	page, err := s.repo.List(ctx, listing.NewQuery(listing.OwnReports, p).Scope("user_id", userID))
	if err != nil {
		return page, fmt.Errorf("failed to list reports: %w", err)
	}
	return page, nil
}

func (s *Service) List(ctx context.Context, p listing.Params) (listing.Page[*model.Report], error) {
	page, err := s.repo.List(ctx, listing.NewQuery(listing.Reports, p))
	if err != nil {
		return page, fmt.Errorf("failed to list reports: %w", err)
	}
	return page, nil
}

// Update triages a report and notifies the submitting resident when the
// status changes.
func (s *Service) Update(ctx context.Context, id int64, req model.UpdateReportRequest) (*model.Report, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := r.Status

	if req.Status != nil {
		r.Status = *req.Status
	}
	if req.Priority != nil {
		r.Priority = *req.Priority
	}
	if req.AdminNotes != nil {
		r.AdminNotes = req.AdminNotes
	}
	now := s.now()
	r.DateUpdated = &now

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if r.Status != oldStatus && r.UserID != nil {
		notification.NotifyOrLog(ctx, s.notifier, s.logger, &model.Notification{
			UserID:  *r.UserID,
			Type:    model.NotificationReportStatus,
			Title:   "Report status updated",
			Message: fmt.Sprintf("Your %s report is now %s.", r.Type, r.Status),
			Data: model.JSONMap{
				"report_id":   r.ID,
				"report_type": r.Type,
				"old_status":  oldStatus,
				"new_status":  r.Status,
				"location":    r.Location,
				"priority":    r.Priority,
			},
		})
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*model.ReportStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get report stats: %w", err)
	}
	return stats, nil
}
