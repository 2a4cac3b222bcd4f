package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"streamhub/internal/app/adapters/metrics"
	"streamhub/internal/app/ports"
)

const (
	sessionCookie    = "streamhub_sid"
	stateTTL         = 10 * time.Minute
	sessionTTL       = 30 * 24 * time.Hour
	validateInterval = 55 * time.Minute
)

// Session is one logged-in browser. Tokens live server-side only; the
// browser holds nothing but the opaque session id cookie.
type Session struct {
	AccessToken     string
	RefreshToken    string
	Scopes          []string
	ExpiresAt       time.Time
	LastValidatedAt time.Time

	UserID  string
	Login   string
	Profile *ports.Profile
}

// applyValidation folds a successful token check into the session.
func (sess *Session) applyValidation(v *ports.TokenValidation) {
	sess.LastValidatedAt = time.Now()
	if len(v.Scopes) > 0 {
		sess.Scopes = v.Scopes
	}
	if v.Login != "" {
		sess.Login = v.Login
	}
	if v.UserID != "" {
		sess.UserID = v.UserID
	}
}

type oauthState struct {
	ReturnTo  string
	ExpiresAt time.Time
}

// Sessions is the in-memory session and OAuth-state store. Expired entries
// are swept opportunistically on the login path, mirroring how rarely they
// accumulate.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	states   map[string]oauthState
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
		states:   make(map[string]oauthState),
	}
}

// NewState records a CSRF state token carrying the post-login destination.
func (s *Sessions) NewState(returnTo string) string {
	state := uuid.NewString()

	s.mu.Lock()
	s.states[state] = oauthState{ReturnTo: returnTo, ExpiresAt: time.Now().Add(stateTTL)}
	s.mu.Unlock()

	return state
}

// TakeState consumes a state token; a token is good exactly once.
func (s *Sessions) TakeState(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.states[state]
	if !ok {
		return "", false
	}
	delete(s.states, state)

	if time.Now().After(rec.ExpiresAt) {
		return "", false
	}
	return rec.ReturnTo, true
}

func (s *Sessions) Create(sess *Session) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsActive.Inc()
	return id
}

// Get returns a copy of the session. Handlers read the copy and write back
// through Update; the live record is only ever touched under the store lock.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		metrics.SessionsActive.Dec()
		return Session{}, false
	}
	return *sess, true
}

// Update mutates the live session under the store lock. A missing or expired
// id is a no-op.
func (s *Sessions) Update(id string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		fn(sess)
	}
}

func (s *Sessions) Delete(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	delete(s.sessions, id)
	metrics.SessionsActive.Dec()
	return sess
}

// Compact drops expired sessions and state tokens.
func (s *Sessions) Compact() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for state, rec := range s.states {
		if now.After(rec.ExpiresAt) {
			delete(s.states, state)
		}
	}
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			metrics.SessionsActive.Dec()
		}
	}
}
