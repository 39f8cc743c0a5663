package machine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/solver"
	"svw.info/changemaker/internal/validator"
)

func newMachine(t *testing.T, st domain.State) *Machine {
	t.Helper()
	m, err := New(solver.NewBoundedSolver(solver.Limits{}), validator.New(0, 0), st)
	require.NoError(t, err)
	return m
}

func TestPurchaseCommitsChangeAndStock(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, DefaultState())

	// 2000 - 1299 = 701, rounded to 700.
	rc, err := m.Purchase(ctx, "vitC", 2000, false)
	require.NoError(t, err)
	_, err = uuid.Parse(rc.ID)
	assert.NoError(t, err)
	assert.Equal(t, 701, rc.ChangeDue)
	assert.Equal(t, 700, rc.RoundedChange)
	require.True(t, rc.Result.Success, rc.Result.Message)
	assert.Equal(t, []int{200, 500}, rc.Result.Change)
	assert.Equal(t, 11, rc.Product.Stock)

	st := m.Snapshot(ctx)
	for _, c := range st.Register {
		switch c.Denom {
		case 200:
			assert.Equal(t, 19, c.Count)
		case 500:
			assert.Equal(t, 5, c.Count)
		}
	}
	assert.Equal(t, 11, st.Products[0].Stock)
}

func TestPurchaseFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 50, Count: 1}},
		Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 1}},
	})
	before := m.Snapshot(ctx)

	rc, err := m.Purchase(ctx, "gum", 120, true)
	require.NoError(t, err)
	require.False(t, rc.Result.Success)
	assert.Equal(t, domain.FailureNoExactSolution, rc.Result.Failure)
	assert.NotNil(t, rc.Result.Debug)
	assert.Equal(t, before, m.Snapshot(ctx))
}

func TestPurchaseRejections(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 5, Count: 10}},
		Products: []domain.Product{
			{ID: "gum", Name: "Gum", Price: 100, Stock: 1},
			{ID: "mints", Name: "Mints", Price: 100, Stock: 0},
		},
	})

	_, err := m.Purchase(ctx, "nope", 200, false)
	assert.True(t, errors.Is(err, ErrUnknownProduct))

	_, err = m.Purchase(ctx, "mints", 200, false)
	assert.True(t, errors.Is(err, ErrOutOfStock))

	_, err = m.Purchase(ctx, "gum", 100, false)
	assert.True(t, errors.Is(err, ErrPaymentTooLow))

	rc, err := m.Purchase(ctx, "gum", 110, false)
	require.NoError(t, err)
	require.True(t, rc.Result.Success)
	assert.Equal(t, []int{5, 5}, rc.Result.Change)

	_, err = m.Purchase(ctx, "gum", 110, false)
	assert.True(t, errors.Is(err, ErrOutOfStock))
}

func TestPurchaseWithoutRounding(t *testing.T) {
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 1, Count: 10}},
		Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 1}},
		Meta:     map[string]string{"rounding": RoundingNone},
	})
	rc, err := m.Purchase(context.Background(), "gum", 103, false)
	require.NoError(t, err)
	assert.Equal(t, 3, rc.RoundedChange)
	assert.Equal(t, []int{1, 1, 1}, rc.Result.Change)
}

func TestReplaceRejectsInvalidState(t *testing.T) {
	m := newMachine(t, DefaultState())
	cases := []domain.State{
		{Register: domain.Register{{Denom: 0, Count: 1}}},
		{Register: domain.Register{{Denom: 5, Count: 1}, {Denom: 5, Count: 2}}},
		{Products: []domain.Product{{ID: "a", Price: -1}}},
		{Products: []domain.Product{{ID: "a"}, {ID: "a"}}},
		{Meta: map[string]string{"rounding": "banker"}},
	}
	for _, st := range cases {
		assert.True(t, errors.Is(m.Replace(context.Background(), st), ErrInvalidState), "%+v", st)
	}
	assert.Len(t, m.Products(context.Background()), len(DefaultProducts()))
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, DefaultState())
	st := m.Snapshot(ctx)
	st.Register[0].Count = 0
	st.Products[0].Stock = 0
	st.Meta["rounding"] = RoundingNone

	again := m.Snapshot(ctx)
	assert.Equal(t, DefaultRegister()[0], again.Register[0])
	assert.Equal(t, 12, again.Products[0].Stock)
	assert.Equal(t, RoundingNearest5, again.Meta["rounding"])
}

func TestPurchaseRejectsAmountAboveBound(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 1_000_000, Count: 3}},
		Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 1}},
	})
	before := m.Snapshot(ctx)

	rc, err := m.Purchase(ctx, "gum", 2_000_100, false)
	assert.Nil(t, rc)
	var verr *validator.Error
	require.True(t, errors.As(err, &verr), "%v", err)
	assert.Equal(t, "paymentAmount", verr.Issues[0].Path)
	assert.Equal(t, before, m.Snapshot(ctx))
}

func TestTooManySlotsRejected(t *testing.T) {
	reg := make(domain.Register, 70)
	for i := range reg {
		reg[i] = domain.CoinSlot{Denom: i + 1, Count: 1}
	}
	st := domain.State{Register: reg, Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 1}}}

	_, err := New(solver.NewBoundedSolver(solver.Limits{}), validator.New(0, 0), st)
	assert.True(t, errors.Is(err, ErrInvalidState), "%v", err)

	m := newMachine(t, DefaultState())
	err = m.Replace(context.Background(), st)
	assert.True(t, errors.Is(err, ErrInvalidState))
	var verr *validator.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cashRegister", verr.Issues[0].Path)
	assert.Equal(t, DefaultRegister(), m.Snapshot(context.Background()).Register)
}

func TestPurchaseKeepsRegisterOrder(t *testing.T) {
	ctx := context.Background()
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 25, Count: 4}, {Denom: 5, Count: 10}, {Denom: 10, Count: 5}},
		Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 2}},
	})

	rc, err := m.Purchase(ctx, "gum", 140, false)
	require.NoError(t, err)
	require.True(t, rc.Result.Success, rc.Result.Message)
	assert.Equal(t, []int{5, 10, 25}, rc.Result.Change)
	assert.Equal(t, domain.Register{{Denom: 25, Count: 3}, {Denom: 5, Count: 9}, {Denom: 10, Count: 4}}, m.Snapshot(ctx).Register)
}

func TestZeroChangeReceiptListsEmptyChange(t *testing.T) {
	m := newMachine(t, domain.State{
		Register: domain.Register{{Denom: 5, Count: 1}},
		Products: []domain.Product{{ID: "gum", Name: "Gum", Price: 100, Stock: 1}},
	})
	// 2c of change rounds down to nothing.
	rc, err := m.Purchase(context.Background(), "gum", 102, false)
	require.NoError(t, err)
	require.True(t, rc.Result.Success)

	raw, err := json.Marshal(rc.Result)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, []any{}, out["change"], fmt.Sprint(out))
	assert.Equal(t, map[string]any{}, out["coinUsage"])
	assert.Contains(t, out, "updatedRegister")
}
