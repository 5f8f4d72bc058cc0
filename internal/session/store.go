package session

import (
	"context"
	"errors"

	"maasai-craft/internal/checkout"
)

var ErrNotFound = errors.New("session not found")

// Store keeps checkout sessions between requests. Implementations refresh the
// expiry on every Save.
type Store interface {
	Get(ctx context.Context, id string) (*checkout.Session, error)
	Save(ctx context.Context, s *checkout.Session) error
	Delete(ctx context.Context, id string) error
}
