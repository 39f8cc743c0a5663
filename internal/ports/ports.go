package ports

import (
	"context"
	"time"

	"svw.info/changemaker/internal/domain"
)

// Stats captures performance characteristics of an operation.
type Stats struct {
	Nodes    int
	Duration time.Duration
	Cached   bool
}

// Solver computes exact change from a bounded register. It is pure: the same
// request always yields the same result and no state survives the call.
type Solver interface {
	Solve(req domain.ChangeRequest) (*domain.Result, Stats)
}

// Validator checks a change request against the configured bounds.
type Validator interface {
	Validate(ctx context.Context, req domain.ChangeRequest) error
}

// Machine holds vending state: register, catalog and the purchase flow.
type Machine interface {
	Snapshot(ctx context.Context) domain.State
	Replace(ctx context.Context, st domain.State) error
	Products(ctx context.Context) []domain.Product
	Purchase(ctx context.Context, productID string, payment int, debug bool) (*domain.Purchase, error)
}
