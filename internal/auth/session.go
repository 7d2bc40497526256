// Package auth manages signed-in sessions for the web client.  A session is
// created by exchanging credentials with the backend at sign-in, holds the
// bearer token and the user's profile, and is torn down on explicit
// sign-out or expiry.  The booking workflow only ever sees a session as a
// read-only credential provider; it never refreshes or mutates tokens.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-booking-web/internal/api"
)

// Session is one signed-in user's state.
type Session struct {
	ID        string    // opaque id handed to the browser
	Token     string    // bearer access token for backend calls
	Refresh   string    // refresh token, used only at sign-out
	User      api.User  // profile returned at sign-in
	ExpiresAt time.Time // earliest of the session TTL and the token's exp claim
	CreatedAt time.Time
}

// Expired reports whether the session has outlived its token or TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Manager stores active sessions in memory.  The process holds no
// persistent account state; losing the process just signs everyone out.
type Manager struct {
	mu       sync.Mutex
	client   *api.Client
	ttl      time.Duration
	sessions map[string]*Session
}

// NewManager creates a session manager over the given backend client.
func NewManager(client *api.Client, ttl time.Duration) *Manager {
	return &Manager{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// SignIn exchanges credentials with the backend and creates a session.
// Backend rejections (bad password, unverified account) pass through as
// *api.APIError for verbatim display.
func (m *Manager) SignIn(ctx context.Context, username, password string) (*Session, error) {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.Access,
		Refresh:   resp.Refresh,
		User:      resp.User,
		ExpiresAt: sessionExpiry(resp.Access, now, m.ttl),
		CreatedAt: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	logrus.WithFields(logrus.Fields{"user": s.User.Username, "session": s.ID}).Info("session created")
	return s, nil
}

// Register forwards an account registration to the backend.  No session is
// created: the account must be verified by email before sign-in.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) error {
	return m.client.Register(ctx, req)
}

// Verify relays the emailed code that activates a freshly registered
// account.  Like Register, it runs anonymously.
func (m *Manager) Verify(ctx context.Context, email, code string) error {
	return m.client.VerifyEmail(ctx, email, code)
}

// ForgotPassword relays a reset-code request.  The backend's answer does
// not disclose whether the address is registered.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.client.ForgotPassword(ctx, email)
}

// RefreshProfile re-reads the user's profile so the copy cached on the
// session stays current after an edit.
func (m *Manager) RefreshProfile(ctx context.Context, s *Session) error {
	user, err := m.client.WithToken(s.Token).Profile(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	s.User = *user
	m.mu.Unlock()
	return nil
}

// Resume builds a session from a stored bearer token by probing the
// profile endpoint, the same startup credential check browsers relied on.
// An invalid or expired token is simply rejected; no refresh is attempted
// here.
func (m *Manager) Resume(ctx context.Context, token string) (*Session, error) {
	user, err := m.client.WithToken(token).Profile(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      *user,
		ExpiresAt: sessionExpiry(token, now, m.ttl),
		CreatedAt: now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id, or false when it does not
// exist or has expired.  Expired sessions are removed on access.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if s.Expired(time.Now().UTC()) {
		delete(m.sessions, id)
		return nil, false
	}
	return s, true
}

// SignOut tears the session down.  The backend logout call is best-effort:
// the local session is removed even when the backend is unreachable, so a
// user can always sign out.
func (m *Manager) SignOut(ctx context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}
	if s.Refresh != "" {
		if err := m.client.WithToken(s.Token).Logout(ctx, s.Refresh); err != nil {
			logrus.WithError(err).Warn("backend logout failed, session removed locally")
		}
	}
}

// Client returns an API client bound to the session's bearer token.
func (m *Manager) Client(s *Session) *api.Client {
	return m.client.WithToken(s.Token)
}

// sessionExpiry derives a session deadline from the token's exp claim when
// one is present, capped by the configured TTL.  The token is parsed
// without signature verification: the client does not hold the backend's
// signing secret and only needs the claim for bookkeeping; authorization
// is still enforced server-side on every call.
func sessionExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	deadline := now.Add(ttl)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return deadline
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return deadline
	}
	if exp.Time.Before(deadline) {
		return exp.Time
	}
	return deadline
}
