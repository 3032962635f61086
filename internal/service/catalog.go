package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// CatalogSource loads a complete, validated catalog.
type CatalogSource interface {
	Load(ctx context.Context) (*entities.Catalog, error)
}

// CatalogService holds the active catalog snapshot and swaps it on reload.
// Readers always see a whole snapshot; a failed reload keeps the previous one.
type CatalogService struct {
	source   CatalogSource
	admins   map[string]struct{}
	observer ReloadObserver
	logger   *zap.Logger

	current atomic.Pointer[entities.Catalog]
	mu      sync.Mutex // serializes reloads
}

// NewCatalogService loads the initial snapshot. observer may be nil.
func NewCatalogService(
	ctx context.Context,
	source CatalogSource,
	admins []string,
	observer ReloadObserver,
	logger *zap.Logger,
) (*CatalogService, error) {
	s := &CatalogService{
		source:   source,
		admins:   make(map[string]struct{}, len(admins)),
		observer: observer,
		logger:   logger,
	}
	for _, id := range admins {
		s.admins[id] = struct{}{}
	}

	if _, err := s.Reload(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return s, nil
}

// Snapshot returns the active catalog.
func (s *CatalogService) Snapshot() *entities.Catalog {
	return s.current.Load()
}

// IsAdmin reports whether userID is on the admin allow-list.
func (s *CatalogService) IsAdmin(userID string) bool {
	_, ok := s.admins[userID]
	return ok
}

// Reload loads a fresh catalog and makes it active.
func (s *CatalogService) Reload(ctx context.Context) (*entities.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.source.Load(ctx)
	if s.observer != nil {
		s.observer.CatalogReloaded(err)
	}
	if err != nil {
		s.logger.Error("catalog reload failed, keeping previous snapshot", zap.Error(err))
		return nil, err
	}

	s.current.Store(c)
	s.logger.Info("catalog loaded",
		zap.Int("quizzes", len(c.Quizzes())),
		zap.Int("tests", len(c.Tests())),
		zap.Int("games", len(c.Games())),
	)
	return c, nil
}

// ReloadAs reloads on behalf of a user, who must be an admin.
func (s *CatalogService) ReloadAs(ctx context.Context, userID string) (*entities.Catalog, error) {
	if !s.IsAdmin(userID) {
		s.logger.Warn("unauthorized reload attempt", zap.String("user_id", userID))
		return nil, ErrUnauthorized
	}
	return s.Reload(ctx)
}

// ReloadSummary renders the confirmation shown after a reload.
func ReloadSummary(c *entities.Catalog) string {
	return fmt.Sprintf("Reloaded %d quizzes, %d tests and %d games.",
		len(c.Quizzes()), len(c.Tests()), len(c.Games()))
}

// StartSchedule reloads the catalog on a cron schedule until ctx is done.
// An empty schedule disables scheduled reloads.
func (s *CatalogService) StartSchedule(ctx context.Context, schedule string) error {
	if schedule == "" {
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(schedule, func() {
		s.logger.Info("cron triggered: reloading catalog")
		_, _ = s.Reload(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule catalog reload %q: %w", schedule, err)
	}

	c.Start()
	s.logger.Info("catalog reload scheduler started", zap.String("schedule", schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("catalog reload scheduler stopped")
	return nil
}
