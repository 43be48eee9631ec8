package session

import (
	"context"
	"errors"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/google/uuid"
)

var (
	ErrCacheMiss      = errors.New("cache miss")
	ErrCorruptSession = errors.New("corrupt session data")
)

// Store persists the cart of a session. Load of an unknown session returns an
// empty cart, not an error.
type Store interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Cache is a lookaside copy of session carts. Get reports ErrCacheMiss for
// unknown sessions.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Set(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
