package store

import (
	"context"
	"fmt"
	"strings"

	"adda/internal/models"
)

const userColumns = `id, name, email, instagram_handle, department, year, bio, interests, looking_for, profile_pic_url, user_type, created_at`

// CreateUser inserts a profile. ID, CreatedAt and a default UserType are
// filled in on u.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if err := required("name", u.Name, "email", u.Email); err != nil {
		return err
	}
	var taken int
	if err := s.db.GetContext(ctx, &taken, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), u.Email); err != nil {
		return err
	}
	if taken > 0 {
		return fmt.Errorf("%w: email already registered", ErrConflict)
	}

	u.ID = newID()
	u.CreatedAt = s.timestamp()
	if u.UserType == "" {
		u.UserType = "student"
	}
	if u.Interests == nil {
		u.Interests = models.TagList{}
	}
	if u.LookingFor == nil {
		u.LookingFor = models.TagList{}
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.Name, u.Email, optional(u.InstagramHandle), optional(u.Department), optional(u.Year),
		optional(u.Bio), u.Interests, u.LookingFor, optional(u.ProfilePicURL), u.UserType, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var u models.User
	if err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FirstUser returns the earliest registered user. It stands in for the
// signed-in identity until end-user auth is wired by the auth provider.
func (s *Store) FirstUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC LIMIT 1`); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	if !validID(userID) {
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT id, user_id, kind, message, ref_id, is_read, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	err := s.db.GetContext(ctx, &st, s.db.Rebind(`SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM clubs WHERE approval_status = ?) AS clubs,
		(SELECT COUNT(*) FROM events) AS events`), models.StatusApproved)
	return st, err
}
