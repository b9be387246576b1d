package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/compass-console/compass-console/internal/schema"
	"github.com/compass-console/compass-console/internal/shared"
)

// API is the transport capability the auth flows consume.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
}

// Service wraps the authentication endpoints around the store.
type Service struct {
	api    API
	store  *Store
	notify shared.Notifier
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(api API, store *Store, notify shared.Notifier, logger *slog.Logger) *Service {
	return &Service{api: api, store: store, notify: notify, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginPayload struct {
	AccessToken string          `json:"accessToken" validate:"required"`
	User        *profilePayload `json:"user"`
}

type profilePayload struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin manager user"`
}

type profileEnvelope struct {
	User profilePayload `json:"user" validate:"required"`
}

func (p profilePayload) principal() shared.Principal {
	return shared.Principal{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  shared.Role(p.Role),
	}
}

// Login authenticates the credentials and stores the resulting session.
func (s *Service) Login(ctx context.Context, email, password string) (shared.Principal, error) {
	req := loginRequest{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := schema.Check(req); err != nil {
		return shared.Principal{}, err
	}

	s.store.LoginStart()
	raw, err := s.api.Do(ctx, "POST", "/auth/login", nil, req)
	if err != nil {
		s.store.LoginFailed(err.Error())
		s.notify.Error(err.Error())
		return shared.Principal{}, err
	}

	payload, err := schema.Decode[loginPayload](raw)
	if err == nil {
		err = schema.Check(payload)
	}
	if err != nil {
		s.store.LoginFailed(err.Error())
		s.notify.Error(err.Error())
		return shared.Principal{}, err
	}

	var principal *shared.Principal
	if payload.User != nil {
		p := payload.User.principal()
		principal = &p
	}
	if err := s.store.LoginSuccess(principal, payload.AccessToken); err != nil {
		s.logger.Warn("persist token", slog.Any("error", err))
	}

	// Some deployments return only the token; resolve the profile now that
	// the transport can see it.
	if principal == nil {
		p, err := s.Me(ctx)
		if err != nil {
			if clearErr := s.store.ExpireSession(err.Error()); clearErr != nil {
				s.logger.Warn("clear token", slog.Any("error", clearErr))
			}
			s.notify.Error(err.Error())
			return shared.Principal{}, err
		}
		principal = &p
	}

	s.notify.Success(fmt.Sprintf("signed in as %s", principal.Email))
	return *principal, nil
}

// Logout clears the session and the persisted token. Safe to call when
// already logged out.
func (s *Service) Logout() error {
	if err := s.store.Logout(); err != nil {
		s.logger.Warn("clear token", slog.Any("error", err))
		return err
	}
	return nil
}

// Me fetches the authenticated profile from the server and refreshes the
// stored principal.
func (s *Service) Me(ctx context.Context) (shared.Principal, error) {
	raw, err := s.api.Do(ctx, "GET", "/auth/me", nil, nil)
	if err != nil {
		return shared.Principal{}, err
	}
	payload, err := schema.Decode[profileEnvelope](raw)
	if err == nil {
		err = schema.Check(payload.User)
	}
	if err != nil {
		return shared.Principal{}, err
	}
	p := payload.User.principal()
	s.store.SetPrincipal(p)
	return p, nil
}

// Hydrate resolves a persisted token into a principal on cold start. With no
// token the check completes immediately as anonymous; a rejected token is
// deleted with session-expired semantics. Hydrate only runs once per store.
func (s *Service) Hydrate(ctx context.Context) error {
	if s.store.AuthCheckComplete() {
		return nil
	}
	if s.store.Token() == "" {
		s.store.CompleteAuthCheck()
		return nil
	}
	if _, err := s.Me(ctx); err != nil {
		if clearErr := s.store.ExpireSession("session expired"); clearErr != nil {
			s.logger.Warn("clear token", slog.Any("error", clearErr))
		}
		return fmt.Errorf("session expired: %w", err)
	}
	return nil
}
