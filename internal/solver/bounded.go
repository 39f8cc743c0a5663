package solver

import (
	"fmt"
	"slices"
	"time"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/money"
	"svw.info/changemaker/internal/ports"
)

const (
	msgNoChange     = "No change required."
	msgEmpty        = "Cash register is empty."
	msgNoExact      = "Exact change not possible with current coin counts."
	msgNegative     = "Target amount must not be negative."
	msgComputed     = "Change computed successfully."
	msgInconsistent = "Internal inconsistency while reconstructing change"
)

// BoundedSolver finds the exact change with the fewest coins given limited
// counts per denomination. It keeps no state between calls; each Solve owns
// its table.
type BoundedSolver struct {
	Limits Limits
	naive  *NaiveSolver
}

func NewBoundedSolver(l Limits) *BoundedSolver {
	l = l.withDefaults()
	return &BoundedSolver{Limits: l, naive: NewNaiveSolver(l.NaiveMaxAmount, l.NaiveMaxCalls)}
}

var _ ports.Solver = (*BoundedSolver)(nil)

// Solve computes change for req. Failures are reported in the result; when
// req.Debug is set a snapshot is attached whatever the outcome.
func (s *BoundedSolver) Solve(req domain.ChangeRequest) (*domain.Result, ports.Stats) {
	start := time.Now()
	res, nodes := s.solve(req)
	return res, ports.Stats{Nodes: nodes, Duration: time.Since(start)}
}

func (s *BoundedSolver) solve(req domain.ChangeRequest) (*domain.Result, int) {
	amount := req.Amount
	if amount == 0 {
		res := &domain.Result{
			Success:         true,
			Message:         msgNoChange,
			Change:          []int{},
			CoinUsage:       map[int]int{},
			UpdatedRegister: req.Register.Clone(),
		}
		if req.Debug {
			res.Debug = &domain.DebugSnapshot{
				TargetAmount:     0,
				CoinSet:          req.Register.Denoms(),
				RegisterSnapshot: req.Register.Clone(),
				DPTablePreview:   []domain.TableRow{},
				Trace:            []string{"target amount is 0, no DP needed"},
				Naive:            domain.NaiveSummary{},
			}
		}
		return res, 0
	}

	var rec *traceRecorder
	if req.Debug {
		rec = newTraceRecorder(s.Limits.TraceLines)
	}

	if amount < 0 {
		rec.addf("target amount %d is negative, DP skipped", amount)
		return s.fail(req, domain.FailureNoExactSolution, msgNegative, nil, nil, rec), 0
	}
	if len(req.Register) == 0 {
		rec.addf("register is empty, DP skipped")
		return s.fail(req, domain.FailureEmptyRegister, msgEmpty, nil, nil, rec), 0
	}

	coins := normalize(req.Register)
	if total := coins.Total(amount); total < amount {
		rec.addf("total balance %d below target %d, DP skipped", total, amount)
		msg := fmt.Sprintf("Machine cannot provide change, insufficient total balance. Available: %s", money.Format(total))
		return s.fail(req, domain.FailureInsufficientBalance, msg, coins, nil, rec), 0
	}

	t := newTable(coins, amount)
	nodes := t.fill(coins, rec)
	if !t.reachable(t.n, amount) {
		return s.fail(req, domain.FailureNoExactSolution, msgNoExact, coins, t, rec), nodes
	}

	usage, err := t.backtrack(amount)
	if err != nil {
		return s.fail(req, domain.FailureInternalInconsistency, msgInconsistent+": "+err.Error(), coins, t, rec), nodes
	}
	res, err := settle(coins, usage, amount)
	if err != nil {
		return s.fail(req, domain.FailureInternalInconsistency, msgInconsistent+": "+err.Error(), coins, t, rec), nodes
	}
	if req.Debug {
		res.Debug = s.snapshot(amount, coins, t, rec)
	}
	return res, nodes
}

func (s *BoundedSolver) fail(req domain.ChangeRequest, kind domain.FailureKind, msg string, coins domain.Register, t *table, rec *traceRecorder) *domain.Result {
	res := &domain.Result{Success: false, Message: msg, Failure: kind}
	if req.Debug {
		if coins == nil {
			coins = normalize(req.Register)
		}
		res.Debug = s.snapshot(req.Amount, coins, t, rec)
	}
	return res
}

// snapshot assembles the debug payload. The naive solver is run on the
// requested target and denominations, independent of the DP outcome.
func (s *BoundedSolver) snapshot(amount int, coins domain.Register, t *table, rec *traceRecorder) *domain.DebugSnapshot {
	snap := &domain.DebugSnapshot{
		TargetAmount:     amount,
		CoinSet:          coins.Denoms(),
		RegisterSnapshot: coins.Clone(),
		DPTablePreview:   []domain.TableRow{},
		Trace:            rec.snapshot(),
		Naive:            s.naive.Run(coins.Denoms(), amount),
	}
	if t != nil {
		snap.DPTablePreview = t.preview(s.Limits.PreviewRows)
	}
	return snap
}

// normalize drops zero denominations, merges duplicates and sorts ascending.
// Negative counts are treated as empty slots.
func normalize(reg domain.Register) domain.Register {
	byDenom := make(map[int]int, len(reg))
	out := make(domain.Register, 0, len(reg))
	for _, c := range reg {
		if c.Denom <= 0 {
			continue
		}
		count := max(c.Count, 0)
		if i, ok := byDenom[c.Denom]; ok {
			out[i].Count += count
			continue
		}
		byDenom[c.Denom] = len(out)
		out = append(out, domain.CoinSlot{Denom: c.Denom, Count: count})
	}
	slices.SortStableFunc(out, func(a, b domain.CoinSlot) int { return a.Denom - b.Denom })
	return out
}

// settle turns per-type usage into the change list, the usage map and the
// decremented register. Any overdraw or sum mismatch is reported, never clamped.
func settle(coins domain.Register, usage []int, amount int) (*domain.Result, error) {
	res := &domain.Result{
		Success:         true,
		Message:         msgComputed,
		Change:          []int{},
		CoinUsage:       map[int]int{},
		UpdatedRegister: make(domain.Register, 0, len(coins)),
	}
	sum := 0
	for i, c := range coins {
		used := usage[i]
		left := c.Count - used
		if used < 0 || left < 0 {
			return nil, fmt.Errorf("coin %d used %d times with only %d available", c.Denom, used, c.Count)
		}
		if used > 0 {
			res.CoinUsage[c.Denom] = used
			for k := 0; k < used; k++ {
				res.Change = append(res.Change, c.Denom)
			}
			sum += used * c.Denom
		}
		res.UpdatedRegister = append(res.UpdatedRegister, domain.CoinSlot{Denom: c.Denom, Count: left})
	}
	if sum != amount {
		return nil, fmt.Errorf("change sums to %d, want %d", sum, amount)
	}
	return res, nil
}
