package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/security"
)

// Service manages the authenticated user's own account.
type Service struct {
	repo      repository.UserRepository
	programs  repository.ProgramRepository
	aid       repository.AidRequestRepository
	emergency repository.EmergencyReportRepository
	hasher    security.PasswordHasher
	logger    *zerolog.Logger
}

func NewService(store *repository.Store, hasher security.PasswordHasher, logger *zerolog.Logger) *Service {
	return &Service{
		repo:      store.Users,
		programs:  store.Programs,
		aid:       store.AidRequests,
		emergency: store.EmergencyReports,
		hasher:    hasher,
		logger:    logger,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileRequest) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	phone := req.PhoneNo
	u.Email = strings.TrimSpace(req.Email)
	u.PhoneNo = &phone
	if req.Address != nil {
		u.Address = req.Address
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// ChangePassword requires the current password and a different new one.
func (s *Service) ChangePassword(ctx context.Context, id int64, req model.ChangePasswordRequest) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, req.CurrentPassword); err != nil {
		return apperrors.Unauthorized("Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperrors.Validation("new_password", "The new password must be different from the current password.")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("Password changed")
	return nil
}

// LinkTelegram stores or clears the Telegram chat of the user.
func (s *Service) LinkTelegram(ctx context.Context, id int64, req model.LinkTelegramRequest) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	chatID := strings.TrimSpace(req.ChatID)
	if req.Linked && chatID == "" {
		return nil, apperrors.Validation("chat_id", "The chat id field is required when linked is true.")
	}
	if chatID == "" {
		u.TelegramChatID = nil
	} else {
		u.TelegramChatID = &chatID
	}
	u.TelegramLinked = req.Linked

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update telegram link: %w", err)
	}
	return u, nil
}

// Stats counts the user's open emergency reports, aid requests and the
// currently active programs.
func (s *Service) Stats(ctx context.Context, id int64) (*model.UserStats, error) {
	open, err := s.emergency.CountOpenByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	requests, err := s.aid.CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count aid requests: %w", err)
	}

	q := listing.NewQuery(listing.Programs, listing.Params{"per_page": "1"}).Scope("status", model.ProgramStatusActive)
	active, err := s.programs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to count programs: %w", err)
	}

	return &model.UserStats{
		ActiveReports:  open,
		AidRequests:    requests,
		ActivePrograms: active.Total,
	}, nil
}
