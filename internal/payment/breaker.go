package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrUnavailable = errors.New("payment gateway unavailable")

type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe.
	OpenTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// BreakerCharger stops calling the gateway after repeated transport
// failures. Declines and malformed cards are answers, not failures.
type BreakerCharger struct {
	next Charger
	cb   *gobreaker.CircuitBreaker[ChargeResult]
}

func NewBreakerCharger(next Charger, st BreakerSettings, log *zap.Logger) *BreakerCharger {
	if log == nil {
		log = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker[ChargeResult](gobreaker.Settings{
		Name:        "payment",
		MaxRequests: 1,
		Timeout:     st.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= st.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidCard) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerCharger{next: next, cb: cb}
}

func (b *BreakerCharger) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	res, err := b.cb.Execute(func() (ChargeResult, error) {
		return b.next.Charge(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ChargeResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, err
}
