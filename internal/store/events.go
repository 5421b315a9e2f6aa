package store

import (
	"context"
	"fmt"

	"adda/internal/models"
)

// CreateEvent inserts a hangout. Events are published immediately; they do
// not pass through the moderation queue.
func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if err := required("title", e.Title); err != nil {
		return err
	}
	if e.DateTime.IsZero() {
		return fmt.Errorf("%w: date_time", ErrMissingField)
	}
	e.ID = newID()
	e.OrganizerID = optional(e.OrganizerID)
	e.ClubID = optional(e.ClubID)
	e.ClubName = nil
	e.DateTime = e.DateTime.UTC()
	e.CreatedAt = s.timestamp()

	if err := checkRefs(ctx, s.db,
		reference{"organizer_id", "users", e.OrganizerID},
		reference{"club_id", "clubs", e.ClubID},
	); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO events
		(id, title, description, organizer_id, club_id, event_type, date_time, location, cover_image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.Title, e.Description, e.OrganizerID, e.ClubID, e.EventType, e.DateTime, e.Location, e.CoverImageURL, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns every event, soonest first, with the hosting club's name.
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	out := []models.Event{}
	err := s.db.SelectContext(ctx, &out, `SELECT e.id, e.title, e.description, e.organizer_id, e.club_id,
			c.name AS club_name, e.event_type, e.date_time, e.location, e.cover_image_url, e.created_at
		FROM events e LEFT JOIN clubs c ON c.id = e.club_id
		ORDER BY e.date_time ASC`)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RSVP records or updates a user's response to an event.
func (s *Store) RSVP(ctx context.Context, eventID, userID string, status models.RSVPStatus) (*models.EventRSVP, error) {
	if err := required("user_id", userID); err != nil {
		return nil, err
	}
	if status == "" {
		status = models.RSVPGoing
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := checkRefs(ctx, s.db,
		reference{"event", "events", &eventID},
		reference{"user_id", "users", &userID},
	); err != nil {
		return nil, err
	}

	r := &models.EventRSVP{ID: newID(), EventID: eventID, UserID: userID, Status: status, CreatedAt: s.timestamp()}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO event_rsvps (id, event_id, user_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = excluded.status`),
		r.ID, r.EventID, r.UserID, r.Status, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}
	if err := s.db.GetContext(ctx, r, s.db.Rebind(`SELECT id, event_id, user_id, status, created_at
		FROM event_rsvps WHERE event_id = ? AND user_id = ?`), eventID, userID); err != nil {
		return nil, err
	}
	return r, nil
}
