// Package repokit binds repositories to a store querier
package repokit

import (
	"context"
	"fmt"
	"time"

	"facilities/internal/platform/store"
)

// Queryer is the read surface repos run statements on
type Queryer = store.Querier

// Binder binds a repo implementation to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor into a Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics on a nil q, a wiring bug
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

type guarder interface {
	Guard(context.Context) error
}

// MustGuard fails startup when the store's backends do not answer
// ctx without a deadline gets 5s
func MustGuard(ctx context.Context, st guarder) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
