package store

import (
	"context"
	"fmt"

	"adda/internal/models"
)

const confessionColumns = `id, sender_id, recipient_name, message, vibe_type, is_anonymous, status, likes_count, created_at`

// CreateConfession inserts c as pending. Any status or like count supplied
// by the client is discarded.
func (s *Store) CreateConfession(ctx context.Context, c *models.Confession) error {
	if err := required("recipient_name", c.RecipientName, "message", c.Message); err != nil {
		return err
	}
	c.ID = newID()
	c.SenderID = optional(c.SenderID)
	if err := checkRefs(ctx, s.db, reference{"sender_id", "users", c.SenderID}); err != nil {
		return err
	}
	c.Status = models.StatusPending
	c.LikesCount = 0
	c.CreatedAt = s.timestamp()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO confessions (`+confessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.SenderID, c.RecipientName, c.Message, c.VibeType, c.IsAnonymous, c.Status, c.LikesCount, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert confession: %w", err)
	}
	return nil
}

func (s *Store) GetConfession(ctx context.Context, id string) (*models.Confession, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var c models.Confession
	if err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT `+confessionColumns+` FROM confessions WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListApprovedConfessions is the public wall, newest first.
func (s *Store) ListApprovedConfessions(ctx context.Context) ([]models.Confession, error) {
	out := []models.Confession{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT `+confessionColumns+`
		FROM confessions WHERE status = ? ORDER BY created_at DESC`), models.StatusApproved)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LikeConfession bumps likes_count in a single statement and returns the new
// count.
func (s *Store) LikeConfession(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE confessions SET likes_count = likes_count + 1 WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	var likes int
	if err := s.db.GetContext(ctx, &likes, s.db.Rebind(`SELECT likes_count FROM confessions WHERE id = ?`), id); err != nil {
		return 0, notFound(err)
	}
	return likes, nil
}
