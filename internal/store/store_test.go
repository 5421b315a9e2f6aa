package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adda/internal/crypto"
	"adda/internal/db"
	"adda/internal/models"
)

// tickClock advances one second per call so created_at ordering is deterministic.
type tickClock struct {
	t time.Time
}

func (c *tickClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "adda.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn))

	clock := &tickClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(conn, zap.NewNop(), opts...)
}

func testSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	s, err := crypto.NewSealer(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)
	return s
}

func mustUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@campus.edu"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func mustConfession(t *testing.T, s *Store, msg string) *models.Confession {
	t.Helper()
	c := &models.Confession{RecipientName: "X", Message: msg, VibeType: "crush"}
	require.NoError(t, s.CreateConfession(context.Background(), c))
	return c
}

func mustClub(t *testing.T, s *Store, name string) *models.Club {
	t.Helper()
	c := &models.Club{Name: name, Category: "Arts"}
	require.NoError(t, s.CreateClub(context.Background(), c))
	return c
}

func mustApprovedClub(t *testing.T, s *Store, name string) *models.Club {
	t.Helper()
	c := mustClub(t, s, name)
	_, err := s.ModerateClub(context.Background(), c.ID, models.StatusApproved)
	require.NoError(t, err)
	return c
}
