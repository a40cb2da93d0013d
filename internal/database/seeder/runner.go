package seeder

import (
	"context"
	"fmt"

	"linkup/internal/domain/user"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, users user.Repository) error {
	if users == nil {
		return fmt.Errorf("nil repository")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, users); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
