package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/internal/placement"
)

type rosterLoader interface {
	Load(ctx context.Context) ([]models.Student, error)
}

// RosterService owns the roster snapshot and its memoizing matcher. The
// roster is read lazily on first use and kept until Reload or Invalidate.
type RosterService struct {
	repo   rosterLoader
	cache  *placement.RosterCache
	logger *zap.Logger
	mu     sync.Mutex
}

// NewRosterService constructs a RosterService. A nil strategy uses first-match resolution.
func NewRosterService(repo rosterLoader, strategy placement.MatchStrategy, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, cache: placement.NewRosterCache(strategy), logger: logger}
}

func (s *RosterService) ensureLoaded(ctx context.Context) error {
	if s.cache.Loaded() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.Loaded() {
		return nil
	}
	return s.load(ctx)
}

func (s *RosterService) load(ctx context.Context) error {
	students, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.cache.Load(students)
	s.logger.Info("roster loaded", zap.Int("students", len(students)))
	return nil
}

// Students returns a copy of the roster.
func (s *RosterService) Students(ctx context.Context) ([]models.Student, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.cache.Students(), nil
}

// Matcher returns the memoizing matcher bound to the current roster.
func (s *RosterService) Matcher(ctx context.Context) (placement.Matcher, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.cache, nil
}

// Resolve looks a free-text name or registration number up in the roster.
func (s *RosterService) Resolve(ctx context.Context, query string) (models.Student, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Student{}, false, err
	}
	student, ok := s.cache.Resolve(query)
	return student, ok, nil
}

// StudentClass returns the class of the resolved student, or "" when the name
// cannot be resolved.
func (s *RosterService) StudentClass(ctx context.Context, name string) (string, error) {
	student, ok, err := s.Resolve(ctx, name)
	if err != nil || !ok {
		return "", err
	}
	return student.Class, nil
}

// Reload re-reads the roster file and clears memoized matches.
func (s *RosterService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Invalidate drops the snapshot; the next call reloads it.
func (s *RosterService) Invalidate() {
	s.cache.Invalidate()
}
