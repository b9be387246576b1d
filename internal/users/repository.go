package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/compass-console/compass-console/internal/schema"
	"github.com/compass-console/compass-console/internal/shared"
)

// API is the transport capability the repository consumes.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
}

// Repository defines data access for the remote user collection.
type Repository interface {
	List(ctx context.Context, f Filters) ([]User, shared.PageMeta, error)
	Get(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, input CreateInput) (User, error)
	Update(ctx context.Context, id string, input UpdateInput) (User, error)
	Delete(ctx context.Context, id string) error
}

// APIRepository implements Repository over the HTTP collaborator.
type APIRepository struct {
	api API
}

// NewAPIRepository constructs an APIRepository.
func NewAPIRepository(api API) *APIRepository {
	return &APIRepository{api: api}
}

// List fetches one page of users matching the filter tuple.
func (r *APIRepository) List(ctx context.Context, f Filters) ([]User, shared.PageMeta, error) {
	raw, err := r.api.Do(ctx, "GET", "/users", f.Query(), nil)
	if err != nil {
		return nil, shared.PageMeta{}, err
	}
	payload, err := schema.Decode[listPayload](raw)
	if err == nil {
		err = schema.Check(payload)
	}
	if err != nil {
		return nil, shared.PageMeta{}, wireError(err)
	}
	items := make([]User, 0, len(payload.Data))
	for _, p := range payload.Data {
		items = append(items, p.domain())
	}
	return items, payload.Meta.pageMeta(), nil
}

// Get fetches a single user by id.
func (r *APIRepository) Get(ctx context.Context, id string) (User, error) {
	raw, err := r.api.Do(ctx, "GET", "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return User{}, err
	}
	payload, err := schema.Decode[userEnvelope](raw)
	if err == nil {
		err = schema.Check(payload.User)
	}
	if err != nil {
		return User{}, wireError(err)
	}
	return payload.User.domain(), nil
}

// Create submits a new account and returns the server's record.
func (r *APIRepository) Create(ctx context.Context, input CreateInput) (User, error) {
	raw, err := r.api.Do(ctx, "POST", "/users", nil, input)
	if err != nil {
		return User{}, err
	}
	return decodeRecord(raw)
}

// Update submits a partial account change. Nil fields, including a stripped
// empty password, are absent from the PATCH body.
func (r *APIRepository) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	raw, err := r.api.Do(ctx, "PATCH", "/users/"+url.PathEscape(id), nil, input)
	if err != nil {
		return User{}, err
	}
	return decodeRecord(raw)
}

// Delete removes an account. Success acknowledgements carry null data.
func (r *APIRepository) Delete(ctx context.Context, id string) error {
	raw, err := r.api.Do(ctx, "DELETE", "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return schema.DecodeAck(raw)
}

func decodeRecord(raw []byte) (User, error) {
	payload, err := schema.Decode[userPayload](raw)
	if err == nil {
		err = schema.Check(payload)
	}
	if err != nil {
		return User{}, wireError(err)
	}
	return payload.domain(), nil
}

// wireError reclassifies shape failures on decoded payloads: a response that
// decoded but failed validation is a contract violation, not bad local
// input.
func wireError(err error) error {
	if errors.Is(err, shared.ErrValidation) {
		msg := strings.TrimSuffix(err.Error(), ": "+shared.ErrValidation.Error())
		return fmt.Errorf("%s: %w", msg, shared.ErrSchema)
	}
	return err
}
