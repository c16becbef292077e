package insights

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no generator is configured.
var ErrDisabled = errors.New("insights: generator disabled")

// Disabled is the stub used when insight generation is not configured.
type Disabled struct{}

// Generate always reports that generation is disabled.
func (Disabled) Generate(context.Context, Context) (string, error) {
	return "", ErrDisabled
}
