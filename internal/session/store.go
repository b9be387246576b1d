// Package session owns the authenticated principal, the bearer token, and
// the authentication state machine. The store is the only mutation point for
// login, logout, and profile refresh; everything else observes it.
package session

import (
	"sync"

	"github.com/compass-console/compass-console/internal/ability"
	"github.com/compass-console/compass-console/internal/shared"
)

// Status is the authentication state.
type Status int

// Authentication states. Anonymous is both the initial state and the result
// of any failure.
const (
	StatusAnonymous Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// TokenStore persists the single bearer token between runs. Load returns an
// empty token, not an error, when nothing is persisted.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Store holds the current principal, token, and authentication status.
// The auth-check-complete flag tracks, independently of the status, whether
// hydrating a session from the persisted token has been attempted; consumers
// must not treat an anonymous store as logged-out before it is set.
type Store struct {
	mu            sync.Mutex
	status        Status
	principal     *shared.Principal
	token         string
	lastError     string
	checkComplete bool
	tokens        TokenStore
	abilities     ability.Set
}

// NewStore constructs a Store, reading any persisted token once. The token
// alone does not authenticate; Hydrate resolves it into a principal.
func NewStore(tokens TokenStore) (*Store, error) {
	s := &Store{tokens: tokens, abilities: ability.BuildFor(nil)}
	token, err := tokens.Load()
	if err != nil {
		return s, err
	}
	s.token = token
	return s, nil
}

// LoginStart transitions to authenticating and clears any prior error.
func (s *Store) LoginStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticating
	s.lastError = ""
}

// LoginSuccess stores the token, persists it, and transitions to
// authenticated. The principal may be nil when the login response did not
// include a profile; SetPrincipal completes the picture.
func (s *Store) LoginSuccess(p *shared.Principal, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticated
	s.principal = clone(p)
	s.token = token
	s.lastError = ""
	s.checkComplete = true
	s.abilities = ability.BuildFor(s.principal)
	return s.tokens.Save(token)
}

// LoginFailed records the failure and returns to anonymous.
func (s *Store) LoginFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnonymous
	s.principal = nil
	s.lastError = message
	s.checkComplete = true
	s.abilities = ability.BuildFor(nil)
}

// Logout unconditionally clears the principal and token and deletes the
// persisted token. It is idempotent: logging out twice leaves the same
// anonymous state as once.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnonymous
	s.principal = nil
	s.token = ""
	s.lastError = ""
	s.checkComplete = true
	s.abilities = ability.BuildFor(nil)
	return s.tokens.Clear()
}

// SetPrincipal hydrates or refreshes the profile, transitioning to
// authenticated.
func (s *Store) SetPrincipal(p shared.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticated
	s.principal = &p
	s.lastError = ""
	s.checkComplete = true
	s.abilities = ability.BuildFor(s.principal)
}

// ExpireSession drops the token and principal with session-expired
// semantics: the persisted token is deleted so the next start is anonymous.
func (s *Store) ExpireSession(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnonymous
	s.principal = nil
	s.token = ""
	s.lastError = message
	s.checkComplete = true
	s.abilities = ability.BuildFor(nil)
	return s.tokens.Clear()
}

// CompleteAuthCheck marks hydration as attempted without changing state.
func (s *Store) CompleteAuthCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkComplete = true
}

// Status returns the current authentication state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Principal returns a copy of the current principal, or nil when anonymous.
func (s *Store) Principal() *shared.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.principal)
}

// Token returns the current bearer token. It satisfies the transport's
// TokenSource contract.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// AuthCheckComplete reports whether session hydration has been attempted.
func (s *Store) AuthCheckComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkComplete
}

// LastError returns the most recent authentication failure message.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Abilities returns the compiled permission set for the current principal.
// The set is rebuilt whenever the principal changes, never edited in place.
func (s *Store) Abilities() ability.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abilities
}

func clone(p *shared.Principal) *shared.Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
