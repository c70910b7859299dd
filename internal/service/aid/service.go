package aid

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
)

var validStatuses = map[string]bool{
	model.AidStatusSubmitted: true,
	model.AidStatusInProcess: true,
	model.AidStatusCompleted: true,
	model.AidStatusRejected:  true,
}

// Service manages residents' aid requests.
type Service struct {
	repo     repository.AidRequestRepository
	notifier notification.Notifier
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewService(repo repository.AidRequestRepository, notifier notification.Notifier, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit files a request for userID with status Submitted.
func (s *Service) Submit(ctx context.Context, userID int64, req model.CreateAidRequest) (*model.AidRequest, error) {
	a := &model.AidRequest{
		UserID:          userID,
		AidType:         req.AidType,
		HouseholdSize:   req.HouseholdSize,
		IncomeLevel:     req.IncomeLevel,
		SupportingNotes: req.SupportingNotes,
		Status:          model.AidStatusSubmitted,
		SubmittedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create aid request: %w", err)
	}

	s.logger.Info().Int64("aid_request_id", a.ID).Int64("user_id", userID).Str("aid_type", a.AidType).Msg("Aid request submitted")
	return a, nil
}

// ListMine lists the requests of userID.
func (s *Service) ListMine(ctx context.Context, userID int64, p listing.Params) (listing.Page[*model.AidRequest], error) {
	return s.list(ctx, listing.NewQuery(listing.AidRequests, p).Scope("user_id", userID))
}

func (s *Service) List(ctx context.Context, p listing.Params) (listing.Page[*model.AidRequest], error) {
	return s.list(ctx, listing.NewQuery(listing.AidRequests, p))
}

func (s *Service) list(ctx context.Context, q listing.Query) (listing.Page[*model.AidRequest], error) {
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, fmt.Errorf("failed to list aid requests: %w", err)
	}
	return page, nil
}

// UpdateStatus records an administrator decision and notifies the requester.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string, remarks *string, adminID int64) (*model.AidRequest, error) {
	if !validStatuses[status] {
		return nil, apperrors.Validation("status", "The selected status is invalid.")
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get aid request: %w", err)
	}
	oldStatus := a.Status

	a.Status = status
	if remarks != nil {
		a.AdminRemarks = remarks
	}
	a.AdminID = &adminID
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update aid request: %w", err)
	}

	if oldStatus != status {
		notification.NotifyOrLog(ctx, s.notifier, s.logger, &model.Notification{
			UserID:  a.UserID,
			Type:    model.NotificationAidStatus,
			Title:   "Aid request status updated",
			Message: fmt.Sprintf("Your %s aid request is now %s.", a.AidType, status),
			Data: model.JSONMap{
				"request_id": a.ID,
				"aid_type":   a.AidType,
				"old_status": oldStatus,
				"new_status": status,
			},
		})
	}
	return a, nil
}
