package solver

import (
	"math"

	"svw.info/changemaker/internal/domain"
)

const naiveInf = math.MaxInt

// NaiveSolver is the unbounded, memoized recursive coin-change solver used for
// comparison in debug output. It ignores coin counts, so its answer may differ
// from the bounded result; it is never used to check or override it.
type NaiveSolver struct {
	MaxAmount int
	MaxCalls  int
}

func NewNaiveSolver(maxAmount, maxCalls int) *NaiveSolver {
	return &NaiveSolver{MaxAmount: maxAmount, MaxCalls: maxCalls}
}

// Run computes the minimum coin count for amount with unlimited use of each
// denomination. Every call counts toward MaxCalls, memo hits included; once
// the budget is spent unresolved calls report no solution.
func (s *NaiveSolver) Run(denoms []int, amount int) domain.NaiveSummary {
	if amount > s.MaxAmount {
		return domain.NaiveSummary{
			Enabled:     false,
			AmountTried: amount,
			Calls:       0,
			Truncated:   true,
		}
	}

	calls := 0
	truncated := false
	memo := make(map[int]int)
	parent := make(map[int]int)

	var solve func(a int) int
	solve = func(a int) int {
		calls++
		if calls > s.MaxCalls {
			truncated = true
			return naiveInf
		}
		if a == 0 {
			return 0
		}
		if a < 0 {
			return naiveInf
		}
		if v, ok := memo[a]; ok {
			return v
		}
		best, bestCoin := naiveInf, 0
		for _, d := range denoms {
			if d <= 0 {
				continue
			}
			sub := solve(a - d)
			if sub == naiveInf {
				continue
			}
			if sub+1 < best {
				best = sub + 1
				bestCoin = d
			}
		}
		memo[a] = best
		if bestCoin > 0 {
			parent[a] = bestCoin
		}
		return best
	}

	out := domain.NaiveSummary{
		Enabled:     true,
		AmountTried: amount,
		UsedCoins:   []int{},
		UsageMap:    map[int]int{},
	}
	result := solve(amount)
	out.Calls = calls
	out.Truncated = truncated
	if result == naiveInf {
		return out
	}
	out.ResultCoins = &result
	for a := amount; a > 0; {
		coin, ok := parent[a]
		if !ok {
			break
		}
		out.UsedCoins = append(out.UsedCoins, coin)
		out.UsageMap[coin]++
		a -= coin
	}
	return out
}
