package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/config"
	"github.com/lshigami/placementai/internal/model"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	in := &State{
		UserEmail: "a@x.com",
		Quiz:      []model.QuizQuestion{{Question: "Q", Options: []string{"a (correct)", "b"}}},
		Flashes:   []Flash{{Category: FlashInfo, Message: "hi"}},
	}
	if err := store.Save(ctx, "id1", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := store.Load(ctx, "id1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.UserEmail != "a@x.com" || len(out.Quiz) != 1 || out.Quiz[0].Options[0] != "a (correct)" || len(out.Flashes) != 1 {
		t.Fatalf("loaded = %+v", out)
	}

	if err := store.Delete(ctx, "id1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "id1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load after delete err = %v", err)
	}
}

func TestBoltStoreDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now()
	_ = store.Save(ctx, "old", &State{UserEmail: "a", UpdatedAt: now.Add(-48 * time.Hour)})
	_ = store.Save(ctx, "new", &State{UserEmail: "b", UpdatedAt: now})

	n, err := store.DeleteExpired(now.Add(-24 * time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired = %d, %v", n, err)
	}
	if _, err := store.Load(ctx, "new"); err != nil {
		t.Fatalf("fresh session removed: %v", err)
	}
}

func TestStatePopFlashes(t *testing.T) {
	var s State
	s.AddFlash(FlashDanger, "x")
	s.AddFlash(FlashInfo, "y")
	if got := s.PopFlashes(); len(got) != 2 || got[0].Message != "x" {
		t.Fatalf("flashes = %+v", got)
	}
	if len(s.PopFlashes()) != 0 {
		t.Fatal("flashes should be consumed")
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *BoltStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	m := NewManager(store, config.Session{CookieName: "sid", TTL: time.Hour})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/login", func(c *gin.Context) {
		Regenerate(c)
		FromContext(c).Login("a@x.com", false)
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, FromContext(c).UserEmail)
	})
	return r, store
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "sid" {
			found = c
		}
	}
	if found == nil {
		t.Fatal("no session cookie set")
	}
	return found
}

func TestMiddlewarePersistsStateAcrossRequests(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "a@x.com" {
		t.Fatalf("whoami = %q", w.Body.String())
	}
}

func TestMiddlewareRegenerateDropsOldID(t *testing.T) {
	r, store := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	first := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(first)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	second := sessionCookie(t, w)

	if first.Value == second.Value {
		t.Fatal("login must issue a new session id")
	}
	if _, err := store.Load(context.Background(), first.Value); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old session still present: %v", err)
	}
}

func TestMiddlewareIgnoresForgedCookie(t *testing.T) {
	r, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "" {
		t.Fatalf("whoami = %q", w.Body.String())
	}
	if sessionCookie(t, w).Value == "not-a-uuid" {
		t.Fatal("forged id must be replaced")
	}
}

type countingStore struct {
	*BoltStore
	writes atomic.Int32
}

func (s *countingStore) Update(ctx context.Context, id string, fn func(*State) *State) error {
	s.writes.Add(1)
	return s.BoltStore.Update(ctx, id, fn)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.writes.Add(1)
	return s.BoltStore.Delete(ctx, id)
}

func TestMiddlewareSkipsWritesForUntouchedSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &countingStore{BoltStore: newTestStore(t)}
	m := NewManager(store, config.Session{CookieName: "sid", TTL: time.Hour})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/login", func(c *gin.Context) {
		Regenerate(c)
		FromContext(c).Login("a@x.com", false)
		c.Status(http.StatusNoContent)
	})
	r.GET("/page", func(c *gin.Context) {
		c.String(http.StatusOK, FromContext(c).UserEmail)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	anon := sessionCookie(t, w)
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(anon)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if n := store.writes.Load(); n != 0 {
		t.Fatalf("anonymous empty session caused %d store writes", n)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, w)
	store.writes.Store(0)

	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "a@x.com" {
		t.Fatalf("page = %q", w.Body.String())
	}
	if n := store.writes.Load(); n != 0 {
		t.Fatalf("unchanged session caused %d store writes", n)
	}
}

func TestMiddlewareKeepsQuizSavedByConcurrentRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	m := NewManager(store, config.Session{CookieName: "sid", TTL: time.Hour})
	started, release := make(chan struct{}), make(chan struct{})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/login", func(c *gin.Context) {
		Regenerate(c)
		FromContext(c).Login("a@x.com", false)
		c.Status(http.StatusNoContent)
	})
	r.GET("/quiz", func(c *gin.Context) {
		FromContext(c).Quiz = []model.QuizQuestion{{Question: "Q", Options: []string{"a (correct)", "b"}}}
		c.Status(http.StatusNoContent)
	})
	r.GET("/slow", func(c *gin.Context) {
		close(started)
		<-release
		FromContext(c).AddFlash(FlashSuccess, "done")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, w)
	serve := func(path string) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		serve("/slow")
	}()
	<-started
	serve("/quiz")
	close(release)
	<-done

	state, err := store.Load(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.HasQuiz() {
		t.Fatal("quiz written by /quiz was lost when the slower request finished")
	}
	if len(state.Flashes) != 1 || state.Flashes[0].Message != "done" {
		t.Fatalf("flashes = %+v", state.Flashes)
	}
	if state.UserEmail != "a@x.com" {
		t.Fatalf("user = %q", state.UserEmail)
	}
}

func TestMergeIntoKeepsConcurrentFlashes(t *testing.T) {
	base := &State{UserEmail: "a", Flashes: []Flash{{Message: "old"}}}
	stored := &State{UserEmail: "a", Flashes: []Flash{{Message: "old"}, {Message: "new"}}}
	next := base.clone()
	next.PopFlashes()

	merged := mergeInto(stored, base, next)
	if len(merged.Flashes) != 1 || merged.Flashes[0].Message != "new" {
		t.Fatalf("flashes = %+v", merged.Flashes)
	}
}

func TestMiddlewareDoesNotResurrectDeletedSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	m := NewManager(store, config.Session{CookieName: "sid", TTL: time.Hour})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/login", func(c *gin.Context) {
		Regenerate(c)
		FromContext(c).Login("a@x.com", false)
		c.Status(http.StatusNoContent)
	})
	r.GET("/flash", func(c *gin.Context) {
		// Another request removes the record while this one runs.
		id, _ := c.Cookie("sid")
		_ = store.Delete(c.Request.Context(), id)
		FromContext(c).AddFlash(FlashInfo, "late")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/flash", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := store.Load(context.Background(), cookie.Value); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted session came back: %v", err)
	}
}
