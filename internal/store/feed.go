package store

import (
	"context"

	"adda/internal/models"
)

// RecentConfessions returns the newest approved confessions as feed items.
func (s *Store) RecentConfessions(ctx context.Context, limit int) ([]models.FeedItem, error) {
	return s.feedItems(ctx, models.KindConfession, `SELECT id, message AS content, created_at
		FROM confessions WHERE status = ? ORDER BY created_at DESC LIMIT ?`, models.StatusApproved, limit)
}

// RecentClubs returns the newest approved clubs as feed items.
func (s *Store) RecentClubs(ctx context.Context, limit int) ([]models.FeedItem, error) {
	return s.feedItems(ctx, models.KindClub, `SELECT id, name AS content, created_at
		FROM clubs WHERE approval_status = ? ORDER BY created_at DESC LIMIT ?`, models.StatusApproved, limit)
}

// RecentEvents returns the newest events as feed items. Events carry no
// approval gate.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]models.FeedItem, error) {
	return s.feedItems(ctx, models.KindEvent, `SELECT id, title AS content, created_at
		FROM events ORDER BY created_at DESC LIMIT ?`, limit)
}

func (s *Store) feedItems(ctx context.Context, kind models.ContentKind, query string, args ...any) ([]models.FeedItem, error) {
	out := []models.FeedItem{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Type = kind
	}
	return out, nil
}
