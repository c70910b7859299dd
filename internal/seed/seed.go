// Package seed loads demo accounts, programs and incident reports.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/security"
)

// Summary counts the rows a run created.
type Summary struct {
	Users    int
	Programs int
	Reports  int
}

type Seeder struct {
	store  *repository.Store
	hasher security.PasswordHasher
	logger *zerolog.Logger
	now    func() time.Time
}

func New(store *repository.Store, hasher security.PasswordHasher, logger *zerolog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		hasher: hasher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run is idempotent: existing accounts are reused and tables that already
// hold rows are left alone.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	adminID, created, err := s.seedUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = created

	if sum.Programs, err = s.seedPrograms(ctx, adminID); err != nil {
		return sum, err
	}
	if sum.Reports, err = s.seedReports(ctx); err != nil {
		return sum, err
	}

	s.logger.Info().
		Int("users", sum.Users).
		Int("programs", sum.Programs).
		Int("reports", sum.Reports).
		Msg("Seed complete")
	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context) (adminID int64, created int, err error) {
	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, u := range users() {
		u := u
		existing, err := s.store.Users.GetByEmail(ctx, u.Email)
		switch {
		case err == nil:
			s.logger.Debug().Str("email", u.Email).Msg("Seed user exists")
			u = *existing
		case apperrors.Is(err, apperrors.ErrNotFound):
			u.PasswordHash = hash
			if err := s.store.Users.Create(ctx, &u); err != nil {
				return 0, created, fmt.Errorf("failed to create user %s: %w", u.Email, err)
			}
			created++
		default:
			return 0, created, fmt.Errorf("failed to look up user %s: %w", u.Email, err)
		}
		if u.Role == model.RoleAdmin && adminID == 0 {
			adminID = u.ID
		}
	}
	return adminID, created, nil
}

func (s *Seeder) seedPrograms(ctx context.Context, adminID int64) (int, error) {
	page, err := s.store.Programs.List(ctx, listing.NewQuery(listing.Programs, nil))
	if err != nil {
		return 0, fmt.Errorf("failed to count programs: %w", err)
	}
	if page.Total > 0 {
		return 0, nil
	}

	n := 0
	for _, p := range programs(adminID) {
		p := p
		if err := s.store.Programs.Create(ctx, &p); err != nil {
			return n, fmt.Errorf("failed to create program %q: %w", p.Title, err)
		}
		n++
	}
	return n, nil
}

func (s *Seeder) seedReports(ctx context.Context) (int, error) {
	page, err := s.store.Reports.List(ctx, listing.NewQuery(listing.Reports, nil))
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	if page.Total > 0 {
		return 0, nil
	}

	n := 0
	for _, r := range reports(s.now()) {
		r := r
		if err := s.store.Reports.Create(ctx, &r); err != nil {
			return n, fmt.Errorf("failed to create report %q: %w", *r.Title, err)
		}
		n++
	}
	return n, nil
}
