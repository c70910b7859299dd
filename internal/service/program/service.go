package program

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/rescuenet/rescuenet-api/internal/listing"
	"github.com/rescuenet/rescuenet-api/internal/model"
	"github.com/rescuenet/rescuenet-api/internal/repository"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/metrics"
)

const statsKey = "programs|stats"

// Service manages Bantuan programs. Public reads are cached per canonical
// query and the cache is flushed by every write.
type Service struct {
	repo    repository.ProgramRepository
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *zerolog.Logger

	// gen counts invalidations. A read only fills the cache if no write
	// flushed it since the read began.
	mu  sync.Mutex
	gen uint64
}

// NewService accepts a nil cache, which disables caching.
func NewService(repo repository.ProgramRepository, c *cache.Cache, m *metrics.Metrics, logger *zerolog.Logger) *Service {
	if m == nil {
		m = metrics.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  logger,
	}
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Service) lookup(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	result := "miss"
	if ok {
		result = "hit"
	}
	s.metrics.CacheLookups.WithLabelValues("programs", result).Inc()
	return v, ok
}

func (s *Service) store(gen uint64, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.cache.Set(key, v, cache.DefaultExpiration)
	}
}

func (s *Service) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cache != nil {
		s.cache.Flush()
	}
}

func (s *Service) list(ctx context.Context, q listing.Query) (listing.Page[*model.Program], error) {
	key := q.Key()
	if v, ok := s.lookup(key); ok {
		return v.(listing.Page[*model.Program]), nil
	}
	gen := s.generation()
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[*model.Program]{}, fmt.Errorf("failed to list programs: %w", err)
	}
	s.store(gen, key, page)
	return page, nil
}

func (s *Service) List(ctx context.Context, p listing.Params) (listing.Page[*model.Program], error) {
	return s.list(ctx, listing.NewQuery(listing.Programs, p))
}

// Active lists programs whose status is Active.
func (s *Service) Active(ctx context.Context, p listing.Params) (listing.Page[*model.Program], error) {
	return s.list(ctx, listing.NewQuery(listing.Programs, p).Scope("status", model.ProgramStatusActive))
}

func (s *Service) ByCategory(ctx context.Context, category string, p listing.Params) (listing.Page[*model.Program], error) {
	return s.list(ctx, listing.NewQuery(listing.Programs, p).Scope("category", category))
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Program, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return p, nil
}

func validateDates(start, end *model.Date) error {
	if start != nil && end != nil && end.Before(start.Time) {
		return apperrors.Validation("end_date", "The end date must be a date after or equal to start date.")
	}
	return nil
}

// Create stores a new Active program attributed to adminID.
func (s *Service) Create(ctx context.Context, req model.CreateProgramRequest, adminID int64) (*model.Program, error) {
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	p := &model.Program{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		ProgramType:  req.ProgramType,
		AidAmount:    req.AidAmount,
		Criteria:     req.Criteria,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       model.ProgramStatusActive,
		AdminID:      &adminID,
		AdminRemarks: req.AdminRemarks,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	s.invalidate()

	s.logger.Info().Int64("program_id", p.ID).Int64("admin_id", adminID).Msg("Program created")
	return p, nil
}

// Update applies the fields present in req.
func (s *Service) Update(ctx context.Context, id int64, req model.UpdateProgramRequest, adminID int64) (*model.Program, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.ProgramType != nil {
		p.ProgramType = req.ProgramType
	}
	if req.AidAmount != nil {
		p.AidAmount = req.AidAmount
	}
	if req.Criteria != nil {
		p.Criteria = req.Criteria
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.AdminRemarks != nil {
		p.AdminRemarks = req.AdminRemarks
	}
	if err := validateDates(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}
	p.AdminID = &adminID

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	s.invalidate()
	return p, nil
}

// ToggleStatus flips Active and Inactive.
func (s *Service) ToggleStatus(ctx context.Context, id int64, adminID int64) (*model.Program, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == model.ProgramStatusActive {
		p.Status = model.ProgramStatusInactive
	} else {
		p.Status = model.ProgramStatusActive
	}
	p.AdminID = &adminID

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to toggle program status: %w", err)
	}
	s.invalidate()

	s.logger.Info().Int64("program_id", id).Str("status", p.Status).Msg("Program status toggled")
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) Stats(ctx context.Context) (*model.ProgramStats, error) {
	if v, ok := s.lookup(statsKey); ok {
		return v.(*model.ProgramStats), nil
	}
	gen := s.generation()
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get program stats: %w", err)
	}
	s.store(gen, statsKey, stats)
	return stats, nil
}
