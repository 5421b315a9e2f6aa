package store

import (
	"context"
	"fmt"

	"adda/internal/models"
)

// SendBouquet delivers b to the recipient's inbox and leaves a notification,
// both in one transaction.
func (s *Store) SendBouquet(ctx context.Context, b *models.Bouquet) error {
	if err := required("recipient_id", b.RecipientID, "message", b.Message); err != nil {
		return err
	}
	b.ID = newID()
	b.SenderID = optional(b.SenderID)
	if b.BouquetType == "" {
		b.BouquetType = "rose"
	}
	b.CreatedAt = s.timestamp()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkRefs(ctx, tx,
		reference{"recipient", "users", &b.RecipientID},
		reference{"sender_id", "users", b.SenderID},
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO bouquets (id, sender_id, recipient_id, message, bouquet_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		b.ID, b.SenderID, b.RecipientID, b.Message, b.BouquetType, b.CreatedAt); err != nil {
		return fmt.Errorf("insert bouquet: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO notifications (id, user_id, kind, message, ref_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		newID(), b.RecipientID, "bouquet", "Someone sent you a "+b.BouquetType, b.ID, false, b.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return tx.Commit()
}

// ListBouquets returns the recipient's inbox, newest first.
func (s *Store) ListBouquets(ctx context.Context, recipientID string) ([]models.Bouquet, error) {
	out := []models.Bouquet{}
	if !validID(recipientID) {
		return out, nil
	}
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(`SELECT id, sender_id, recipient_id, message, bouquet_type, created_at
		FROM bouquets WHERE recipient_id = ? ORDER BY created_at DESC`), recipientID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
