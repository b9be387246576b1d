package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/compass-console/compass-console/internal/shared"
)

// PositiveInt coerces a string form of a 1-indexed quantity such as a page
// number. Coercion fails closed: unparsable or non-positive input is
// rejected, never silently defaulted.
func PositiveInt(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", field, s, shared.ErrValidation)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d: %w", field, n, shared.ErrValidation)
	}
	return n, nil
}
