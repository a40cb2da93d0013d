package seeder

import (
	"context"

	"linkup/internal/domain/user"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, users user.Repository) error
}

// Connector links two users in both directions. Both store adapters
// implement it.
type Connector interface {
	AddConnection(ctx context.Context, a, b string) error
}
