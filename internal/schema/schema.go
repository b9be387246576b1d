// Package schema parses untrusted API payloads into typed, guaranteed-shape
// values. All responses travel inside the fixed envelope
// {error, message, data}; an envelope reporting error, or promising a
// payload and carrying none, is rejected here instead of deep inside a
// consumer.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/compass-console/compass-console/internal/shared"
)

// Envelope is the fixed wire-response wrapper.
type Envelope struct {
	Error   bool            `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const defaultFailure = "request rejected by server"

var validate = validator.New()

// Decode unwraps an envelope and unmarshals its data into T. The envelope
// must report success and carry a non-null payload; a reported failure
// surfaces the envelope's message as a plain domain error, and a missing or
// malformed payload wraps shared.ErrSchema. Decode never panics.
func Decode[T any](raw []byte) (T, error) {
	var zero T
	env, err := unwrap(raw)
	if err != nil {
		return zero, err
	}
	if isNull(env.Data) {
		return zero, fmt.Errorf("envelope carried no data: %w", shared.ErrSchema)
	}
	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return zero, fmt.Errorf("decode payload: %w", shared.ErrSchema)
	}
	return value, nil
}

// DecodeAck unwraps an envelope that promises no payload, such as a delete
// acknowledgement. Null data is valid here.
func DecodeAck(raw []byte) error {
	_, err := unwrap(raw)
	return err
}

func unwrap(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", shared.ErrSchema)
	}
	if env.Error {
		message := env.Message
		if message == "" {
			message = defaultFailure
		}
		return Envelope{}, fmt.Errorf("%s", message)
	}
	return env, nil
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

// Check runs struct-tag validation over a decoded value, converting the
// first field failure into shared.ErrValidation.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return fmt.Errorf("field %s failed rule %q: %w", f.Field(), f.Tag(), shared.ErrValidation)
	}
	return fmt.Errorf("%v: %w", err, shared.ErrValidation)
}
