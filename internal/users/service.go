package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/compass-console/compass-console/internal/ability"
	"github.com/compass-console/compass-console/internal/platform/cache"
	"github.com/compass-console/compass-console/internal/schema"
	"github.com/compass-console/compass-console/internal/session"
	"github.com/compass-console/compass-console/internal/shared"
)

// State is the snapshot backing the list view. It is replaced wholesale on
// every successful fetch; on failure the previous items survive, because
// stale-but-valid beats empty.
type State struct {
	Items      []User          `json:"items"`
	Pagination shared.PageMeta `json:"pagination"`
	IsLoading  bool            `json:"isLoading"`
	IsError    bool            `json:"isError"`
	LastError  string          `json:"lastError,omitempty"`
}

type listResult struct {
	Items []User          `json:"items"`
	Meta  shared.PageMeta `json:"meta"`
}

// Service orchestrates the user collection: authorization-gated fetches and
// mutations, the filter-keyed cache, and invalidation. Permission checks run
// before any request is constructed.
type Service struct {
	repo    Repository
	cache   *cache.Store
	session *session.Store
	notify  shared.Notifier
	logger  *slog.Logger
	group   singleflight.Group

	mu          sync.Mutex
	state       State
	lastFilters Filters
	latestKey   string
}

// NewService constructs a Service.
func NewService(repo Repository, store *cache.Store, sess *session.Store, notify shared.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   store,
		session: sess,
		notify:  notify,
		logger:  logger,
	}
}

// State returns a copy of the current list snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = make([]User, len(s.state.Items))
	copy(st.Items, s.state.Items)
	return st
}

// List fetches one page of users for the filter tuple and replaces the
// snapshot wholesale on success. Responses are matched back to the tuple
// that produced them: a slow response for an old tuple is discarded rather
// than applied, so it can never overwrite results for a newer one.
// Concurrent fetches for the same tuple are collapsed into one request.
func (s *Service) List(ctx context.Context, f Filters) ([]User, shared.PageMeta, error) {
	f = f.Normalize()
	if err := s.authorize(ability.ActionRead, ability.SubjectUser, nil); err != nil {
		return nil, shared.PageMeta{}, err
	}

	key, err := s.cache.BuildKey(ctx, f.KeyParts()...)
	if err != nil {
		s.logger.Warn("cache key", slog.Any("error", err))
		key = f.Key()
	}

	s.mu.Lock()
	s.lastFilters = f
	s.latestKey = key
	s.state.IsLoading = true
	s.mu.Unlock()

	v, err, _ := s.group.Do(key, func() (any, error) {
		var out listResult
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
			items, meta, err := s.repo.List(ctx, f)
			if err != nil {
				return nil, err
			}
			return listResult{Items: items, Meta: meta}, nil
		})
		return out, err
	})
	if err != nil {
		s.mu.Lock()
		s.state.IsLoading = false
		if s.latestKey == key {
			s.state.IsError = true
			s.state.LastError = err.Error()
		}
		s.mu.Unlock()
		s.notify.Error(err.Error())
		return nil, shared.PageMeta{}, err
	}

	res := v.(listResult)
	s.mu.Lock()
	if s.latestKey == key {
		s.state = State{Items: res.Items, Pagination: res.Meta}
	}
	s.mu.Unlock()
	return res.Items, res.Meta, nil
}

// Navigate re-lists with the current filters at the target page, clamped
// into the valid range. Out-of-range targets are corrected, not rejected.
func (s *Service) Navigate(ctx context.Context, target int) ([]User, shared.PageMeta, error) {
	s.mu.Lock()
	f := s.lastFilters.Normalize()
	f.Page = shared.ClampPage(target, s.state.Pagination.TotalPages)
	s.mu.Unlock()
	return s.List(ctx, f)
}

// Get fetches a single user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("user id required: %w", shared.ErrValidation)
	}
	if err := s.authorize(ability.ActionRead, ability.SubjectUser, nil); err != nil {
		return User{}, err
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		s.notify.Error(err.Error())
		return User{}, err
	}
	return u, nil
}

// Create validates the input locally, checks create permission, submits the
// account, and invalidates the cached list for every filter tuple.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	input = input.Normalize()
	if err := schema.Check(input); err != nil {
		s.notify.Error(err.Error())
		return User{}, err
	}
	if err := s.authorize(ability.ActionCreate, ability.SubjectUser, nil); err != nil {
		return User{}, err
	}
	u, err := s.repo.Create(ctx, input)
	if err != nil {
		s.notify.Error(err.Error())
		return User{}, err
	}
	s.invalidate(ctx)
	s.notify.Success(fmt.Sprintf("user %s created", u.Email))
	return u, nil
}

// Update validates the partial input locally, checks update permission (a
// role change additionally requires the changeRole grant), submits the
// change, and invalidates every cached list.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("user id required: %w", shared.ErrValidation)
	}
	input = input.Normalize()
	if input.Empty() {
		return User{}, fmt.Errorf("no fields to update: %w", shared.ErrValidation)
	}
	if err := schema.Check(input); err != nil {
		s.notify.Error(err.Error())
		return User{}, err
	}
	if err := s.authorize(ability.ActionUpdate, ability.SubjectUser, nil); err != nil {
		return User{}, err
	}
	if input.Role != nil {
		if err := s.authorize(ability.ActionChangeRole, ability.SubjectUser, nil); err != nil {
			return User{}, err
		}
	}
	u, err := s.repo.Update(ctx, id, input)
	if err != nil {
		s.notify.Error(err.Error())
		return User{}, err
	}
	s.invalidate(ctx)
	s.notify.Success(fmt.Sprintf("user %s updated", u.Email))
	return u, nil
}

// Remove deletes an account after the delete permission check, then
// invalidates every cached list.
func (s *Service) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("user id required: %w", shared.ErrValidation)
	}
	if err := s.authorize(ability.ActionDelete, ability.SubjectUser, nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.notify.Error(err.Error())
		return err
	}
	s.invalidate(ctx)
	s.notify.Success("user removed")
	return nil
}

// authorize consults the ability engine for the current principal. Denials
// short-circuit before any request is constructed.
func (s *Service) authorize(action, subject string, instance ability.Instance) error {
	if s.session.Abilities().Can(action, subject, instance) {
		return nil
	}
	err := fmt.Errorf("cannot %s %s: %w", action, subject, shared.ErrPermission)
	s.notify.Error(err.Error())
	return err
}

// invalidate bumps the cache version so the next read of any filter tuple
// refetches. The local snapshot is never spliced; rebuild-on-invalidate
// avoids drift from server-computed fields.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("cache invalidation", slog.Any("error", err))
	}
}
