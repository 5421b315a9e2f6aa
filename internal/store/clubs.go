package store

import (
	"context"
	"fmt"

	"adda/internal/models"
)

const clubColumns = `id, name, tagline, description, category, cover_image_url, logo_url, member_count, approval_status, created_at`

// CreateClub inserts c as pending with no members.
func (s *Store) CreateClub(ctx context.Context, c *models.Club) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	c.ID = newID()
	c.MemberCount = 0
	c.ApprovalStatus = models.StatusPending
	c.CreatedAt = s.timestamp()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO clubs (`+clubColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.Name, c.Tagline, c.Description, c.Category, c.CoverImageURL, c.LogoURL,
		c.MemberCount, c.ApprovalStatus, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert club: %w", err)
	}
	return nil
}

func (s *Store) GetClub(ctx context.Context, id string) (*models.Club, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var c models.Club
	if err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT `+clubColumns+` FROM clubs WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListApprovedClubs is the public directory, biggest clubs first.
func (s *Store) ListApprovedClubs(ctx context.Context) ([]models.Club, error) {
	out := []models.Club{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT `+clubColumns+`
		FROM clubs WHERE approval_status = ? ORDER BY member_count DESC, created_at DESC`), models.StatusApproved)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// JoinClub records the membership and bumps member_count in one transaction,
// so the counter never drifts from club_members.
func (s *Store) JoinClub(ctx context.Context, clubID, userID string) (*models.ClubMember, error) {
	if err := required("user_id", userID); err != nil {
		return nil, err
	}
	if !validID(clubID) {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status models.Status
	if err := tx.GetContext(ctx, &status, tx.Rebind(`SELECT approval_status FROM clubs WHERE id = ?`), clubID); err != nil {
		return nil, notFound(err)
	}
	if status != models.StatusApproved {
		return nil, fmt.Errorf("%w: club %s", ErrNotFound, clubID)
	}
	ok, err := exists(ctx, tx, "users", userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	var already int
	if err := tx.GetContext(ctx, &already, tx.Rebind(`SELECT COUNT(*) FROM club_members WHERE club_id = ? AND user_id = ?`), clubID, userID); err != nil {
		return nil, err
	}
	if already > 0 {
		return nil, fmt.Errorf("%w: already a member", ErrConflict)
	}

	m := &models.ClubMember{ID: newID(), ClubID: clubID, UserID: userID, Role: "member", CreatedAt: s.timestamp()}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO club_members (id, club_id, user_id, role, created_at) VALUES (?, ?, ?, ?, ?)`),
		m.ID, m.ClubID, m.UserID, m.Role, m.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE clubs SET member_count = member_count + 1 WHERE id = ?`), clubID); err != nil {
		return nil, fmt.Errorf("bump member_count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) ListClubPosts(ctx context.Context, clubID string) ([]models.ClubPost, error) {
	out := []models.ClubPost{}
	if !validID(clubID) {
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT id, club_id, author_id, content, created_at
		FROM club_posts WHERE club_id = ? ORDER BY created_at DESC`), clubID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateClubPost(ctx context.Context, p *models.ClubPost) error {
	if err := required("content", p.Content); err != nil {
		return err
	}
	p.AuthorID = optional(p.AuthorID)
	if err := checkRefs(ctx, s.db,
		reference{"club", "clubs", &p.ClubID},
		reference{"author_id", "users", p.AuthorID},
	); err != nil {
		return err
	}
	p.ID = newID()
	p.CreatedAt = s.timestamp()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO club_posts (id, club_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`),
		p.ID, p.ClubID, p.AuthorID, p.Content, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert club post: %w", err)
	}
	return nil
}
