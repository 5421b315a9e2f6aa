package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"adda/internal/models"
)

type moderatedTable struct {
	kind   models.ContentKind
	table  string
	column string
}

var (
	confessionsTable = moderatedTable{kind: models.KindConfession, table: "confessions", column: "status"}
	clubsTable       = moderatedTable{kind: models.KindClub, table: "clubs", column: "approval_status"}
)

// PendingConfessions returns the confession queue, oldest first.
func (s *Store) PendingConfessions(ctx context.Context) ([]models.Confession, error) {
	out := []models.Confession{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT `+confessionColumns+`
		FROM confessions WHERE status = ? ORDER BY created_at ASC`), models.StatusPending)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PendingClubs returns the club queue, oldest first.
func (s *Store) PendingClubs(ctx context.Context) ([]models.Club, error) {
	out := []models.Club{}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT `+clubColumns+`
		FROM clubs WHERE approval_status = ? ORDER BY created_at ASC`), models.StatusPending)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ModerateConfession sets the confession's status. It reports whether the
// row actually changed.
func (s *Store) ModerateConfession(ctx context.Context, id string, status models.Status) (bool, error) {
	return s.moderate(ctx, confessionsTable, id, status)
}

// ModerateClub sets the club's approval_status. It reports whether the row
// actually changed.
func (s *Store) ModerateClub(ctx context.Context, id string, status models.Status) (bool, error) {
	return s.moderate(ctx, clubsTable, id, status)
}

// moderate applies a decision to one row. Repeating the current status is a
// no-op. In strict mode a decided row cannot be moved to the other decision.
// Only the status column is written.
func (s *Store) moderate(ctx context.Context, t moderatedTable, id string, status models.Status) (bool, error) {
	if !status.IsDecision() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !validID(id) {
		return false, fmt.Errorf("%w: %s %s", ErrNotFound, t.kind, id)
	}

	var current models.Status
	err := s.db.GetContext(ctx, &current, s.db.Rebind(`SELECT `+t.column+` FROM `+t.table+` WHERE id = ?`), id)
	if err != nil {
		return false, notFound(err)
	}
	if current == status {
		return false, nil
	}
	if s.strict && current != models.StatusPending {
		return false, fmt.Errorf("%w: %s %s is %s", ErrAlreadyModerated, t.kind, id, current)
	}

	// Guard on the status we read so a concurrent decision is not overwritten blindly.
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE `+t.table+` SET `+t.column+` = ? WHERE id = ? AND `+t.column+` = ?`),
		status, id, current)
	if err != nil {
		return false, fmt.Errorf("moderate %s: %w", t.kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, fmt.Errorf("%w: %s %s changed concurrently", ErrAlreadyModerated, t.kind, id)
	}

	s.log.Info("content moderated",
		zap.String("kind", string(t.kind)),
		zap.String("id", id),
		zap.String("from", string(current)),
		zap.String("to", string(status)),
	)
	return true, nil
}
