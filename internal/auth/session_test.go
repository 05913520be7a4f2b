package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]Session)}
}

func (s *memorySessionStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestSessionManagerStartResolveEnd(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessionStore()
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), store, false)

	rec := httptest.NewRecorder()
	identity, err := manager.Start(ctx, rec, "user-1", "a@x.com")
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "user-1", Username: "a@x.com"}, identity)
	require.Len(t, store.sessions, 1)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	resolved, err := manager.Resolve(requestWithCookies(cookies))
	require.NoError(t, err)
	require.Equal(t, identity, resolved)

	endRec := httptest.NewRecorder()
	require.NoError(t, manager.End(ctx, endRec, requestWithCookies(cookies)))
	require.Empty(t, store.sessions)

	cleared := endRec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, "", cleared[0].Value)
	require.Less(t, cleared[0].MaxAge, 0)

	// The old cookie no longer resolves once the session record is gone.
	_, err = manager.Resolve(requestWithCookies(cookies))
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerResolveWithoutCookie(t *testing.T) {
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), newMemorySessionStore(), false)

	_, err := manager.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestSessionManagerResolveRejectsTamperedCookie(t *testing.T) {
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), newMemorySessionStore(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})

	_, err := manager.Resolve(req)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManagerResolveExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := newMemorySessionStore()
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), store, false)

	rec := httptest.NewRecorder()
	_, err := manager.Start(ctx, rec, "user-1", "a@x.com")
	require.NoError(t, err)

	manager.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = manager.Resolve(requestWithCookies(rec.Result().Cookies()))
	require.ErrorIs(t, err, ErrSessionNotFound)
}

type unavailableSessionStore struct {
	*memorySessionStore
	err error
}

func (s *unavailableSessionStore) Get(context.Context, string) (*Session, error) {
	return nil, s.err
}

func TestSessionManagerResolveStoreFailure(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("connection refused")
	store := &unavailableSessionStore{memorySessionStore: newMemorySessionStore(), err: errDown}
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), store, false)

	rec := httptest.NewRecorder()
	_, err := manager.Start(ctx, rec, "user-1", "a@x.com")
	require.NoError(t, err)

	_, err = manager.Resolve(requestWithCookies(rec.Result().Cookies()))
	require.ErrorIs(t, err, errDown)
	require.NotErrorIs(t, err, ErrInvalidToken)
	require.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerEndWithoutCookieClearsAnyway(t *testing.T) {
	manager := NewSessionManager(NewJWTManager("secret", time.Hour, "test"), newMemorySessionStore(), true)

	rec := httptest.NewRecorder()
	require.NoError(t, manager.End(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/logout", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
}

func TestIdentityOwns(t *testing.T) {
	require.True(t, Identity{UserID: "a"}.Owns("a"))
	require.False(t, Identity{UserID: "a"}.Owns("b"))
	require.False(t, Identity{}.Owns(""))
}

func TestIdentityContextRoundTrip(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	require.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Username: "a@x.com"})
	identity, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", identity.UserID)

	_, ok = IdentityFromContext(WithIdentity(context.Background(), Identity{}))
	require.False(t, ok)
}
