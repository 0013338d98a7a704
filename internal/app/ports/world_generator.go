package ports

import (
	"context"

	"promptworld/internal/domain/world"
)

// WorldGenerator asks an external world model for a layout. A nil layout
// with a nil error means the generator has nothing to offer.
type WorldGenerator interface {
	Generate(ctx context.Context, prompt string) (*world.Generated, error)
}

type ConfigParser interface {
	Parse(prompt string) world.Config
}
