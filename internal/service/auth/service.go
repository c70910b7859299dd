package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	"github.com/rescuenet/rescuenet-api/pkg/auth"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/security"
)

const invalidCredentials = "Invalid login credentials"

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	logger   *zerolog.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, logger *zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register creates an active resident account.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password", "The password must be at least 6 characters.")
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        strings.TrimSpace(req.Email),
		PhoneNo:      req.PhoneNo,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         model.RoleResident,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn().Int64("user_id", user.ID).Msg("Failed login attempt")
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("Account is disabled")
	}

	token, expiresAt, err := s.jwtSvc.GenerateAccessToken(auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate token: %w", err))
	}

	return &model.LoginResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
