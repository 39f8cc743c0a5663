package machine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/money"
	"svw.info/changemaker/internal/ports"
)

const (
	RoundingNearest5 = "nearest5"
	RoundingNone     = "none"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrOutOfStock     = errors.New("product out of stock")
	ErrPaymentTooLow  = errors.New("payment must exceed product price")
	ErrInvalidState   = errors.New("invalid machine state")
)

// Machine is an in-memory vending machine. The register and stock only change
// when a purchase succeeds, and then together.
type Machine struct {
	mu        sync.Mutex
	solver    ports.Solver
	validator ports.Validator
	register domain.Register
	products []domain.Product
	meta     map[string]string
}

var _ ports.Machine = (*Machine)(nil)

// New builds a machine seeded with st. Change requests and imported registers
// are checked by v before they reach the solver.
func New(s ports.Solver, v ports.Validator, st domain.State) (*Machine, error) {
	m := &Machine{solver: s, validator: v}
	if err := m.Replace(context.Background(), st); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) Snapshot(ctx context.Context) domain.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := make(map[string]string, len(m.meta))
	for k, v := range m.meta {
		meta[k] = v
	}
	return domain.State{
		Register: m.register.Clone(),
		Products: slices.Clone(m.products),
		Meta:     meta,
	}
}

// Replace swaps in a new state after checking it, as an import does.
func (m *Machine) Replace(ctx context.Context, st domain.State) error {
	if err := checkState(st); err != nil {
		return err
	}
	if len(st.Register) > 0 {
		if err := m.validator.Validate(ctx, domain.ChangeRequest{Register: st.Register}); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}
	meta := map[string]string{"rounding": RoundingNearest5, "version": "1"}
	for k, v := range st.Meta {
		meta[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.register = st.Register.Clone()
	m.products = slices.Clone(st.Products)
	m.meta = meta
	return nil
}

func checkState(st domain.State) error {
	seenDenom := make(map[int]bool, len(st.Register))
	for _, c := range st.Register {
		if c.Denom <= 0 || c.Count < 0 {
			return fmt.Errorf("%w: register slot %d,%d", ErrInvalidState, c.Denom, c.Count)
		}
		if seenDenom[c.Denom] {
			return fmt.Errorf("%w: duplicate denomination %d", ErrInvalidState, c.Denom)
		}
		seenDenom[c.Denom] = true
	}
	seenID := make(map[string]bool, len(st.Products))
	for _, p := range st.Products {
		if p.ID == "" || p.Price < 0 || p.Stock < 0 {
			return fmt.Errorf("%w: product %q", ErrInvalidState, p.ID)
		}
		if seenID[p.ID] {
			return fmt.Errorf("%w: duplicate product %q", ErrInvalidState, p.ID)
		}
		seenID[p.ID] = true
	}
	switch r := st.Meta["rounding"]; r {
	case "", RoundingNearest5, RoundingNone:
	default:
		return fmt.Errorf("%w: rounding %q", ErrInvalidState, r)
	}
	return nil
}

func (m *Machine) Products(ctx context.Context) []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.products)
}

// Purchase sells one unit of productID for payment. Change is rounded per the
// machine's rounding setting and paid from the register; if exact change is
// impossible nothing is committed and the receipt carries the failed result.
func (m *Machine) Purchase(ctx context.Context, productID string, payment int, debug bool) (*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.find(productID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}
	p := m.products[idx]
	if p.Stock <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
	}
	if payment <= p.Price {
		return nil, fmt.Errorf("%w: paid %s for %s", ErrPaymentTooLow, money.Format(payment), money.Format(p.Price))
	}

	due := payment - p.Price
	rounded := due
	if m.meta["rounding"] != RoundingNone {
		rounded = money.RoundToNearest5(due)
	}

	req := domain.ChangeRequest{Register: m.register.Clone(), Amount: rounded, Debug: debug}
	if err := m.validator.Validate(ctx, req); err != nil {
		return nil, err
	}
	res, _ := m.solver.Solve(req)
	receipt := &domain.Purchase{
		ID:            uuid.NewString(),
		Product:       p,
		Paid:          payment,
		ChangeDue:     due,
		RoundedChange: rounded,
		Result:        res,
	}
	if !res.Success {
		return receipt, nil
	}

	for i := range m.register {
		m.register[i].Count -= res.CoinUsage[m.register[i].Denom]
	}
	m.products[idx].Stock--
	receipt.Product = m.products[idx]
	return receipt, nil
}

func (m *Machine) find(id string) int {
	id = strings.TrimSpace(id)
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
