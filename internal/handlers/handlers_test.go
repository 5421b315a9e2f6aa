package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"adda/internal/db"
	"adda/internal/feed"
	mw "adda/internal/middleware"
	"adda/internal/models"
	"adda/internal/store"
)

const (
	testAdmin    = "warden"
	testPassword = "s3cret-pass"
)

type testServer struct {
	handler http.Handler
	store   *store.Store
	token   string
}

type tickClock struct {
	t time.Time
}

func (c *tickClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type serverOpts struct {
	strict bool
	cache  feed.Cache
}

func newTestServer(t *testing.T, opts ...func(*serverOpts)) *testServer {
	t.Helper()
	var o serverOpts
	for _, fn := range opts {
		fn(&o)
	}

	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "adda.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn))

	clock := &tickClock{t: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	st := store.New(conn, zap.NewNop(), store.WithClock(clock.Now), store.WithStrictModeration(o.strict))

	reg := prometheus.NewRegistry()
	metrics := mw.NewMetrics(reg)
	feedOpts := []feed.Option{feed.WithCacheObserver(metrics.ObserveFeedCache)}
	if o.cache != nil {
		feedOpts = append(feedOpts, feed.WithCache(o.cache))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	ts := &testServer{
		store: st,
		handler: NewRouter(Deps{
			Store:    st,
			Feed:     feed.NewService(st, zap.NewNop(), feedOpts...),
			Logger:   zap.NewNop(),
			Metrics:  metrics,
			Gatherer: reg,
			Admin: AdminConfig{
				JWTSecret:         []byte("handler-test-secret"),
				AdminUser:         testAdmin,
				AdminPasswordHash: string(hash),
			},
			AllowedOrigins: []string{"*"},
		}),
	}
	ts.token = ts.login(t)
	return ts
}

func strict(o *serverOpts) { o.strict = true }

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": testAdmin, "password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (ts *testServer) create(t *testing.T, path string, body any) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, path, "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	return out.ID
}

func (ts *testServer) moderate(t *testing.T, kind, id string, status models.Status) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/admin/"+kind+"/"+id+"/moderate", ts.token, map[string]any{"status": status})
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestConfessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	id := ts.create(t, "/api/confessions", map[string]any{
		"recipient_name": "X", "message": "hi", "vibe_type": "crush", "status": "approved",
	})

	wall := decodeBody[[]models.Confession](t, ts.do(t, http.MethodGet, "/api/confessions", "", nil))
	assert.Empty(t, wall, "pending confessions stay off the wall")

	queue := decodeBody[[]models.Confession](t, ts.do(t, http.MethodGet, "/api/admin/pending-confessions", ts.token, nil))
	require.Len(t, queue, 1)
	assert.Equal(t, id, queue[0].ID)
	assert.Equal(t, models.StatusPending, queue[0].Status)

	rec := ts.moderate(t, "confessions", id, models.StatusApproved)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"changed":true}`, rec.Body.String())

	wall = decodeBody[[]models.Confession](t, ts.do(t, http.MethodGet, "/api/confessions", "", nil))
	require.Len(t, wall, 1)
	assert.Equal(t, "hi", wall[0].Message)

	queue = decodeBody[[]models.Confession](t, ts.do(t, http.MethodGet, "/api/admin/pending-confessions", ts.token, nil))
	assert.Empty(t, queue)

	rec = ts.do(t, http.MethodPost, "/api/confessions/"+id+"/like", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"likes_count":1}`, rec.Body.String())
}

func TestModerationErrors(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t, "/api/confessions", map[string]any{"recipient_name": "X", "message": "hi"})

	rec := ts.moderate(t, "confessions", id, "deleted")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.moderate(t, "confessions", id, models.StatusPending)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.moderate(t, "confessions", "00000000-0000-0000-0000-000000000000", models.StatusApproved)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.moderate(t, "clubs", "nope", models.StatusApproved)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/confessions/"+id+"/moderate", ts.token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationIsIdempotentOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	id := ts.create(t, "/api/clubs", map[string]any{"name": "Chess", "category": "Games"})

	rec := ts.moderate(t, "clubs", id, models.StatusRejected)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.moderate(t, "clubs", id, models.StatusRejected)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"changed":false}`, rec.Body.String())

	club := decodeBody[models.Club](t, ts.do(t, http.MethodGet, "/api/clubs/"+id, "", nil))
	assert.Equal(t, models.StatusRejected, club.ApprovalStatus)
}

func TestStrictModerationConflict(t *testing.T) {
	ts := newTestServer(t, strict)
	id := ts.create(t, "/api/clubs", map[string]any{"name": "Chess"})

	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", id, models.StatusApproved).Code)
	assert.Equal(t, http.StatusConflict, ts.moderate(t, "clubs", id, models.StatusRejected).Code)

	club := decodeBody[models.Club](t, ts.do(t, http.MethodGet, "/api/clubs/"+id, "", nil))
	assert.Equal(t, models.StatusApproved, club.ApprovalStatus)
}

func TestPendingQueuesOldestFirst(t *testing.T) {
	ts := newTestServer(t)
	a := ts.create(t, "/api/clubs", map[string]any{"name": "A"})
	b := ts.create(t, "/api/clubs", map[string]any{"name": "B"})
	c := ts.create(t, "/api/clubs", map[string]any{"name": "C"})
	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", b, models.StatusApproved).Code)

	queue := decodeBody[[]models.Club](t, ts.do(t, http.MethodGet, "/api/admin/pending-clubs", ts.token, nil))
	require.Len(t, queue, 2)
	assert.Equal(t, a, queue[0].ID)
	assert.Equal(t, c, queue[1].ID)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/pending-clubs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/admin/pending-clubs", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": testAdmin, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"username": "someone", "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClubFeedOrdering(t *testing.T) {
	ts := newTestServer(t)
	first := ts.create(t, "/api/clubs", map[string]any{"name": "First"})
	second := ts.create(t, "/api/clubs", map[string]any{"name": "Second"})
	ts.create(t, "/api/clubs", map[string]any{"name": "Still pending"})
	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", first, models.StatusApproved).Code)
	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", second, models.StatusApproved).Code)

	items := decodeBody[[]models.FeedItem](t, ts.do(t, http.MethodGet, "/api/feed", "", nil))
	require.Len(t, items, 2)
	assert.Equal(t, second, items[0].ID)
	assert.Equal(t, first, items[1].ID)
	for _, it := range items {
		assert.Equal(t, models.KindClub, it.Type)
	}
}

func TestFeedIsCappedPerSource(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 12; i++ {
		c := ts.create(t, "/api/confessions", map[string]any{"recipient_name": "X", "message": "m"})
		require.Equal(t, http.StatusOK, ts.moderate(t, "confessions", c, models.StatusApproved).Code)
		club := ts.create(t, "/api/clubs", map[string]any{"name": "club"})
		require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", club, models.StatusApproved).Code)
		ts.create(t, "/api/events", map[string]any{"title": "e", "date_time": "2026-03-01T18:00:00Z"})
	}

	items := decodeBody[[]models.FeedItem](t, ts.do(t, http.MethodGet, "/api/feed", "", nil))
	require.Len(t, items, 3*feed.PerSourceLimit)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt), "feed must be newest first")
	}
}

func TestFeedCacheInvalidatedOnApproval(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := feed.Dial(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	ts := newTestServer(t, func(o *serverOpts) { o.cache = feed.NewRedisCache(rdb, time.Minute) })

	items := decodeBody[[]models.FeedItem](t, ts.do(t, http.MethodGet, "/api/feed", "", nil))
	assert.Empty(t, items)

	id := ts.create(t, "/api/clubs", map[string]any{"name": "Cached"})
	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", id, models.StatusApproved).Code)

	items = decodeBody[[]models.FeedItem](t, ts.do(t, http.MethodGet, "/api/feed", "", nil))
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
}

func TestClubDirectoryAndJoin(t *testing.T) {
	ts := newTestServer(t)
	user := ts.create(t, "/api/users", map[string]any{"name": "Asha", "email": "asha@campus.edu"})
	club := ts.create(t, "/api/clubs", map[string]any{"name": "Dance"})
	ts.create(t, "/api/clubs", map[string]any{"name": "Hidden"})

	rec := ts.do(t, http.MethodPost, "/api/clubs/"+club+"/join", "", map[string]string{"user_id": user})
	assert.Equal(t, http.StatusNotFound, rec.Code, "pending clubs cannot be joined")

	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", club, models.StatusApproved).Code)
	clubs := decodeBody[[]models.Club](t, ts.do(t, http.MethodGet, "/api/clubs", "", nil))
	require.Len(t, clubs, 1)
	assert.Equal(t, club, clubs[0].ID)

	rec = ts.do(t, http.MethodPost, "/api/clubs/"+club+"/join", "", map[string]string{"user_id": user})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.do(t, http.MethodPost, "/api/clubs/"+club+"/join", "", map[string]string{"user_id": user})
	assert.Equal(t, http.StatusConflict, rec.Code)

	got := decodeBody[models.Club](t, ts.do(t, http.MethodGet, "/api/clubs/"+club, "", nil))
	assert.Equal(t, 1, got.MemberCount)

	ts.create(t, "/api/clubs/"+club+"/posts", map[string]any{"author_id": user, "content": "practice at 6"})
	posts := decodeBody[[]models.ClubPost](t, ts.do(t, http.MethodGet, "/api/clubs/"+club+"/posts", "", nil))
	require.Len(t, posts, 1)
	assert.Equal(t, "practice at 6", posts[0].Content)
}

func TestUsersAndBouquets(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/users/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rec.Body.Bytes())))
	rec = ts.do(t, http.MethodGet, "/api/bouquets", "", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	me := ts.create(t, "/api/users", map[string]any{"name": "Asha", "email": "asha@campus.edu", "interests": []string{"music"}})
	rec = ts.do(t, http.MethodPost, "/api/users", "", map[string]any{"name": "Dup", "email": "ASHA@campus.edu"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/users", "", map[string]any{"name": "No email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	profile := decodeBody[models.User](t, ts.do(t, http.MethodGet, "/api/users/me", "", nil))
	assert.Equal(t, me, profile.ID)
	assert.Equal(t, models.TagList{"music"}, profile.Interests)

	ts.create(t, "/api/bouquets", map[string]any{"recipient_id": me, "message": "for you", "bouquet_type": "sunflower"})
	rec = ts.do(t, http.MethodPost, "/api/bouquets", "", map[string]any{"recipient_id": "ghost", "message": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	inbox := decodeBody[[]models.Bouquet](t, ts.do(t, http.MethodGet, "/api/bouquets", "", nil))
	require.Len(t, inbox, 1)
	assert.Equal(t, "sunflower", inbox[0].BouquetType)

	notes := decodeBody[[]models.Notification](t, ts.do(t, http.MethodGet, "/api/users/"+me+"/notifications", "", nil))
	require.Len(t, notes, 1)
	assert.Equal(t, "bouquet", notes[0].Kind)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/users/ghost", "", nil).Code)
}

func TestEventsAndRSVP(t *testing.T) {
	ts := newTestServer(t)
	user := ts.create(t, "/api/users", map[string]any{"name": "Asha", "email": "asha@campus.edu"})

	rec := ts.do(t, http.MethodPost, "/api/events", "", map[string]any{"title": "Jam", "date_time": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := ts.create(t, "/api/events", map[string]any{"title": "Jam", "date_time": "2026-03-01T18:30"})
	events := decodeBody[[]models.Event](t, ts.do(t, http.MethodGet, "/api/events", "", nil))
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC), events[0].DateTime.UTC())

	rec = ts.do(t, http.MethodPost, "/api/events/"+id+"/rsvp", "", map[string]any{"user_id": user, "status": "interested"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rsvp := decodeBody[models.EventRSVP](t, rec)
	assert.Equal(t, models.RSVPInterested, rsvp.Status)

	rec = ts.do(t, http.MethodPost, "/api/events/"+id+"/rsvp", "", map[string]any{"user_id": user, "status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGigsFlow(t *testing.T) {
	ts := newTestServer(t)
	gig := ts.create(t, "/api/gigs", map[string]any{"title": "Poster design", "pay_amount": "500"})

	gigs := decodeBody[[]models.Gig](t, ts.do(t, http.MethodGet, "/api/gigs", "", nil))
	require.Len(t, gigs, 1)
	assert.Equal(t, models.GigOpen, gigs[0].Status)

	ts.create(t, "/api/gigs/"+gig+"/apply", map[string]any{"upi_id": "asha@upi", "proof_url": "https://example.com/p.png"})
	rec := ts.do(t, http.MethodPost, "/api/gigs/"+gig+"/apply", "", map[string]any{"proof_url": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	apps := decodeBody[[]models.GigApplication](t, ts.do(t, http.MethodGet, "/api/admin/gigs/"+gig+"/applications", ts.token, nil))
	require.Len(t, apps, 1)
	assert.Equal(t, "asha@upi", apps[0].UPIID)

	rec = ts.do(t, http.MethodPost, "/api/admin/gigs/"+gig+"/status", ts.token, map[string]string{"status": "filled"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, "/api/gigs/"+gig+"/apply", "", map[string]any{"upi_id": "late@upi"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, decodeBody[[]models.Gig](t, ts.do(t, http.MethodGet, "/api/gigs", "", nil)))
}

func TestStatsAndHealth(t *testing.T) {
	ts := newTestServer(t)
	ts.create(t, "/api/users", map[string]any{"name": "Asha", "email": "asha@campus.edu"})
	club := ts.create(t, "/api/clubs", map[string]any{"name": "Dance"})
	ts.create(t, "/api/clubs", map[string]any{"name": "Pending"})
	require.Equal(t, http.StatusOK, ts.moderate(t, "clubs", club, models.StatusApproved).Code)
	ts.create(t, "/api/events", map[string]any{"title": "Jam", "date_time": "2026-03-01T18:00:00Z"})

	rec := ts.do(t, http.MethodGet, "/api/stats", "", nil)
	assert.JSONEq(t, `{"users":1,"clubs":1,"events":1}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `adda_moderation_decisions_total{kind="club",status="approved"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/clubs"`)
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/confessions", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid body"}`, rec.Body.String())
}

func TestUnknownReferencesAreNotFound(t *testing.T) {
	ts := newTestServer(t)
	ghost := "5d0c5b8e-2f61-4c1a-9a54-7e3f1b2c4d6a"
	club := ts.create(t, "/api/clubs", map[string]any{"name": "Film"})
	gig := ts.create(t, "/api/gigs", map[string]any{"title": "Poster"})
	user := ts.create(t, "/api/users", map[string]any{"name": "Asha", "email": "asha@campus.edu"})

	tests := []struct {
		name string
		path string
		body map[string]any
	}{
		{"confession sender", "/api/confessions", map[string]any{"recipient_name": "X", "message": "hi", "sender_id": "ghost"}},
		{"confession sender uuid", "/api/confessions", map[string]any{"recipient_name": "X", "message": "hi", "sender_id": ghost}},
		{"gig poster", "/api/gigs", map[string]any{"title": "Tutor", "posted_by": "ghost"}},
		{"event organizer", "/api/events", map[string]any{"title": "Jam", "date_time": "2026-03-01T18:00:00Z", "organizer_id": ghost}},
		{"event club", "/api/events", map[string]any{"title": "Jam", "date_time": "2026-03-01T18:00:00Z", "club_id": "nope"}},
		{"post author", "/api/clubs/" + club + "/posts", map[string]any{"content": "hi", "author_id": ghost}},
		{"bouquet sender", "/api/bouquets", map[string]any{"recipient_id": user, "message": "x", "sender_id": ghost}},
		{"gig applicant", "/api/gigs/" + gig + "/apply", map[string]any{"upi_id": "x@upi", "user_id": ghost}},
		{"rsvp event", "/api/events/nope/rsvp", map[string]any{"user_id": user}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "constraint")
		})
	}

	assert.Empty(t, decodeBody[[]models.Confession](t, ts.do(t, http.MethodGet, "/api/admin/pending-confessions", ts.token, nil)))
}
