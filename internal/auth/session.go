package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName holds the signed session token.
const SessionCookieName = "meuseventos_session"

var ErrSessionNotFound = errors.New("session not found")

// Identity is the authenticated user bound to a request.
type Identity struct {
	UserID   string
	Username string
}

// Owns reports whether a record owned by ownerID belongs to this identity.
func (i Identity) Owns(ownerID string) bool {
	return i.UserID != "" && i.UserID == ownerID
}

// Session is the server-side half of a login. The cookie only proves which
// session the client holds; deleting the record logs the client out.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore persists sessions. Get returns ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type SessionManager struct {
	tokens *JWTManager
	store  SessionStore
	secure bool
	now    func() time.Time
}

func NewSessionManager(tokens *JWTManager, store SessionStore, secure bool) *SessionManager {
	return &SessionManager{
		tokens: tokens,
		store:  store,
		secure: secure,
		now:    time.Now,
	}
}

// Start opens a session for the user and sets the session cookie.
func (m *SessionManager) Start(ctx context.Context, w http.ResponseWriter, userID, username string) (Identity, error) {
	now := m.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.tokens.Expiry()),
	}
	if err := m.store.Create(ctx, session); err != nil {
		return Identity{}, fmt.Errorf("create session: %w", err)
	}

	token, err := m.tokens.Generate(userID, username, session.ID)
	if err != nil {
		_ = m.store.Delete(ctx, session.ID)
		return Identity{}, fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return Identity{UserID: userID, Username: username}, nil
}

// Resolve returns the identity bound to the request's session cookie.
// ErrMissingToken means the client never logged in. ErrInvalidToken and
// ErrSessionNotFound mean the cookie is forged or stale. Any other error is a
// session store failure and says nothing about the cookie.
func (m *SessionManager) Resolve(r *http.Request) (Identity, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return Identity{}, ErrMissingToken
	}

	claims, err := m.tokens.Validate(cookie.Value)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	session, err := m.store.Get(r.Context(), claims.ID)
	if errors.Is(err, ErrSessionNotFound) {
		return Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.Subject {
		return Identity{}, ErrInvalidToken
	}
	if session.Expired(m.now()) {
		return Identity{}, ErrSessionNotFound
	}

	return Identity{UserID: claims.Subject, Username: claims.Username}, nil
}

// End deletes the server-side session, if any, and expires the cookie.
func (m *SessionManager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var storeErr error
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if claims, err := m.tokens.Validate(cookie.Value); err == nil {
			if err := m.store.Delete(ctx, claims.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
				storeErr = fmt.Errorf("delete session: %w", err)
			}
		}
	}

	m.ClearCookie(w)
	return storeErr
}

// ClearCookie expires the session cookie on the client.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
