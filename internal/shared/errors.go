package shared

import "errors"

// Sentinel errors for the console core. Every failure surfaced to a caller
// wraps exactly one of these.
var (
	// ErrValidation indicates a local shape check failed; no request was made.
	ErrValidation = errors.New("validation failed")
	// ErrSchema indicates the server responded but the payload violated the
	// expected envelope contract.
	ErrSchema = errors.New("unexpected response shape")
	// ErrTransport indicates a network failure or a non-2xx response.
	ErrTransport = errors.New("request failed")
	// ErrPermission indicates the ability engine denied the operation before
	// any request was constructed.
	ErrPermission = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or rejected bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// Result is the uniform outcome reported at the console boundary.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Resolve converts an error into a Result. A nil error resolves to success.
func Resolve(err error) Result {
	if err == nil {
		return Result{OK: true}
	}
	return Result{OK: false, Message: err.Error()}
}
