package session

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/watchhaven/internal/cart"
	"github.com/fjod/watchhaven/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedStore reads through cache and writes to primary, dropping the cached
// copy after every write.
type CachedStore struct {
	primary Store
	cache   Cache
	sfg     singleflight.Group
}

func NewCachedStore(primary Store, cache Cache) *CachedStore {
	return &CachedStore{
		primary: primary,
		cache:   cache,
	}
}

func (s *CachedStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		c, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.FromContext(ctx).Warn("session cache get failed", zap.Error(err))
		}

		c, err = s.primary.Load(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if errSet := s.cache.Set(ctx, sessionID, c); errSet != nil {
			logger.FromContext(ctx).Warn("session cache set failed", zap.Error(errSet))
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	// callers sharing a flight must not share the cart
	return v.(*cart.Cart).Clone(), nil
}

func (s *CachedStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if err := s.primary.Save(ctx, sessionID, c); err != nil {
		return err
	}
	s.invalidate(ctx, sessionID)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.primary.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.invalidate(ctx, sessionID)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, sessionID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		logger.FromContext(ctx).Warn("session cache invalidate failed", zap.Error(err))
	}
}
