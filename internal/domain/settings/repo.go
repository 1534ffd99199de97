package settings

import "context"

// Repository persists the single settings row.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
}
