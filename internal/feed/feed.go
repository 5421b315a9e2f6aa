// Package feed builds the unified activity feed from approved confessions,
// approved clubs and events.
package feed

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"adda/internal/models"
)

// PerSourceLimit caps each source; the merged feed never exceeds three times this.
const PerSourceLimit = 10

type Source interface {
	RecentConfessions(ctx context.Context, limit int) ([]models.FeedItem, error)
	RecentClubs(ctx context.Context, limit int) ([]models.FeedItem, error)
	RecentEvents(ctx context.Context, limit int) ([]models.FeedItem, error)
}

// Cache stores the rendered feed between requests. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context) ([]models.FeedItem, bool, error)
	Set(ctx context.Context, items []models.FeedItem) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	src   Source
	cache Cache
	log   *zap.Logger
	hits  func(hit bool)
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithCacheObserver is called with the outcome of every cache lookup.
func WithCacheObserver(fn func(hit bool)) Option {
	return func(s *Service) { s.hits = fn }
}

func NewService(src Source, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{src: src, log: logger, hits: func(bool) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the merged feed, newest first. Cache failures are logged and
// fall through to the database.
func (s *Service) Get(ctx context.Context) ([]models.FeedItem, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("feed cache read failed", zap.Error(err))
		} else {
			s.hits(ok)
			if ok {
				return items, nil
			}
		}
	}

	confessions, err := s.src.RecentConfessions(ctx, PerSourceLimit)
	if err != nil {
		return nil, err
	}
	clubs, err := s.src.RecentClubs(ctx, PerSourceLimit)
	if err != nil {
		return nil, err
	}
	events, err := s.src.RecentEvents(ctx, PerSourceLimit)
	if err != nil {
		return nil, err
	}
	items := Merge(confessions, clubs, events)

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.log.Warn("feed cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

// Invalidate drops the cached feed after a write that changes its contents.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("feed cache invalidate failed", zap.Error(err))
	}
}

// Merge concatenates the lists and sorts them by created_at, newest first.
// Items with equal timestamps keep their input order.
func Merge(lists ...[]models.FeedItem) []models.FeedItem {
	out := []models.FeedItem{}
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
