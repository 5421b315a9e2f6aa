package store

import (
	"context"
	"fmt"

	"adda/internal/models"
)

const gigColumns = `id, title, description, pay_amount, gig_type, location, posted_by, status, created_at`

// CreateGig inserts g as open regardless of the status supplied.
func (s *Store) CreateGig(ctx context.Context, g *models.Gig) error {
	if err := required("title", g.Title); err != nil {
		return err
	}
	g.ID = newID()
	g.PostedBy = optional(g.PostedBy)
	if err := checkRefs(ctx, s.db, reference{"posted_by", "users", g.PostedBy}); err != nil {
		return err
	}
	g.Status = models.GigOpen
	g.CreatedAt = s.timestamp()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO gigs (`+gigColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		g.ID, g.Title, g.Description, g.PayAmount, g.GigType, g.Location, g.PostedBy, g.Status, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert gig: %w", err)
	}
	return nil
}

func (s *Store) ListOpenGigs(ctx context.Context) ([]models.Gig, error) {
	out := []models.Gig{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT `+gigColumns+`
		FROM gigs WHERE status = ? ORDER BY created_at DESC`), models.GigOpen)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetGig(ctx context.Context, id string) (*models.Gig, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var g models.Gig
	if err := s.db.GetContext(ctx, &g, s.db.Rebind(`SELECT `+gigColumns+` FROM gigs WHERE id = ?`), id); err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (s *Store) SetGigStatus(ctx context.Context, id string, status models.GigStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !validID(id) {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE gigs SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyToGig stores an application against an open gig. The UPI id is
// sealed before it reaches the database.
func (s *Store) ApplyToGig(ctx context.Context, a *models.GigApplication) error {
	if err := required("upi_id", a.UPIID); err != nil {
		return err
	}
	g, err := s.GetGig(ctx, a.GigID)
	if err != nil {
		return err
	}
	if g.Status != models.GigOpen {
		return fmt.Errorf("%w: gig is %s", ErrConflict, g.Status)
	}
	a.UserID = optional(a.UserID)
	if err := checkRefs(ctx, s.db, reference{"user_id", "users", a.UserID}); err != nil {
		return err
	}

	sealed, err := s.sealer.Seal(a.UPIID)
	if err != nil {
		return fmt.Errorf("seal upi id: %w", err)
	}
	a.ID = newID()
	a.Status = "applied"
	a.CreatedAt = s.timestamp()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO gig_applications (id, gig_id, user_id, proof_url, upi_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		a.ID, a.GigID, a.UserID, a.ProofURL, sealed, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert gig application: %w", err)
	}
	return nil
}

// ListGigApplications returns applications for a gig with UPI ids opened.
func (s *Store) ListGigApplications(ctx context.Context, gigID string) ([]models.GigApplication, error) {
	out := []models.GigApplication{}
	if !validID(gigID) {
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT id, gig_id, user_id, proof_url, upi_id, status, created_at
		FROM gig_applications WHERE gig_id = ? ORDER BY created_at ASC`), gigID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		plain, err := s.sealer.Open(out[i].UPIID)
		if err != nil {
			return nil, fmt.Errorf("open upi id: %w", err)
		}
		out[i].UPIID = plain
	}
	return out, nil
}
