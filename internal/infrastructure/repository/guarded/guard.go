// Package guarded wraps storage repositories in a shared circuit breaker so a
// database outage fails requests fast with ErrDependencyUnavailable instead of
// piling them up behind connection timeouts.
package guarded

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type guard struct {
	breaker *resilience.CircuitBreaker
}

func (g guard) run(ctx context.Context, fn func(ctx context.Context) error) error {
	err := g.breaker.Do(ctx, fn)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func value[T any](ctx context.Context, g guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func lookup[T any](ctx context.Context, g guard, fn func(ctx context.Context) (T, bool, error)) (T, bool, error) {
	var (
		out T
		ok  bool
	)
	err := g.run(ctx, func(ctx context.Context) error {
		var err error
		out, ok, err = fn(ctx)
		return err
	})
	return out, ok, err
}
