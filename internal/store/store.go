package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"adda/internal/crypto"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrAlreadyModerated = errors.New("already moderated")
	ErrConflict         = errors.New("conflict")
)

// Store is the content store shared by every handler. Queries are written
// with '?' placeholders and rebound for the active driver.
type Store struct {
	db     *sqlx.DB
	log    *zap.Logger
	now    func() time.Time
	sealer *crypto.Sealer
	strict bool
}

type Option func(*Store)

// WithClock overrides the timestamp source used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithStrictModeration refuses to move a decided row to a different status.
func WithStrictModeration(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

func WithSealer(sealer *crypto.Sealer) Option {
	return func(s *Store) { s.sealer = sealer }
}

func New(db *sqlx.DB, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		db:     db,
		log:    logger,
		now:    time.Now,
		sealer: &crypto.Sealer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func newID() string {
	return uuid.NewString()
}

// optional turns blank optional references into NULL.
func optional(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}

// required takes name/value pairs and fails on the first blank value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, pairs[i])
		}
	}
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(string) string
}

// validID reports whether id can name a row. Every primary key is a UUID and
// Postgres rejects anything else before the lookup runs, so malformed ids are
// treated as absent on both backends.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// exists reports whether table has a row with the given id. table is always
// a constant from this package.
func exists(ctx context.Context, q queryer, table, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var n int
	query := q.Rebind("SELECT COUNT(*) FROM " + table + " WHERE id = ?")
	if err := sqlx.GetContext(ctx, q, &n, query, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// reference is an optional foreign key supplied by a client.
type reference struct {
	field string
	table string
	id    *string
}

// checkRefs fails with ErrNotFound on the first non-nil reference whose row
// does not exist, so a bad id never reaches the insert as a constraint error.
func checkRefs(ctx context.Context, q queryer, refs ...reference) error {
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := exists(ctx, q, ref.table, *ref.id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s %s", ErrNotFound, ref.field, *ref.id)
		}
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
