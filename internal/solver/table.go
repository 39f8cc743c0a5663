package solver

import (
	"fmt"

	"svw.info/changemaker/internal/domain"
)

// table is the bounded coin-change DP state for one invocation.
//
// best[i][a] is the minimum number of coins that sum to a using the first i
// coin types, or inf when a is unreachable. units[i][a] is how many coins of
// type i were applied to get there; the predecessor cell is therefore
// (i-1, a-units*denom[i-1]), so units alone encodes the parent link.
// Both are stored row-major in flat buffers owned by the table.
type table struct {
	denoms []int
	n      int
	width  int
	inf    int32
	best   []int32
	units  []int32
}

// link is the parent of a reachable cell.
type link struct {
	prefix int
	amount int
	units  int
}

func newTable(coins domain.Register, target int) *table {
	n := len(coins)
	width := target + 1
	t := &table{
		denoms: coins.Denoms(),
		n:      n,
		width:  width,
		// Every denomination is at least 1, so no reachable cell needs more
		// than target coins.
		inf:   int32(target + 1),
		best:  make([]int32, (n+1)*width),
		units: make([]int32, (n+1)*width),
	}
	for i := range t.best {
		t.best[i] = t.inf
	}
	t.best[0] = 0
	return t
}

func (t *table) idx(i, a int) int { return i*t.width + a }

func (t *table) reachable(i, a int) bool { return t.best[t.idx(i, a)] < t.inf }

func (t *table) minCoins(i, a int) int { return int(t.best[t.idx(i, a)]) }

// parent returns the link for a reachable cell in rows 1..n.
func (t *table) parent(i, a int) (link, bool) {
	if i <= 0 || i > t.n || a < 0 || a >= t.width || !t.reachable(i, a) {
		return link{}, false
	}
	u := int(t.units[t.idx(i, a)])
	return link{prefix: i - 1, amount: a - u*t.denoms[i-1], units: u}, true
}

// fill runs the DP over coins (sorted ascending) and returns the number of
// candidate cells examined.
func (t *table) fill(coins domain.Register, rec *traceRecorder) int {
	nodes := 0
	target := t.width - 1
	for i := 1; i <= t.n; i++ {
		c := coins[i-1]
		rec.addf("processing coin %dc, count=%d", c.Denom, c.Count)
		for a := 0; a <= target; a++ {
			cur := t.idx(i, a)
			t.best[cur] = t.best[t.idx(i-1, a)]
			for k := 1; k <= c.Count; k++ {
				prev := a - k*c.Denom
				if prev < 0 {
					break
				}
				nodes++
				pb := t.best[t.idx(i-1, prev)]
				if pb >= t.inf {
					continue
				}
				// first strict improvement wins: ties keep fewer coins of type i
				if cand := pb + int32(k); cand < t.best[cur] {
					t.best[cur] = cand
					t.units[cur] = int32(k)
					rec.addf("amount %d: using %d×%dc (prev=%d) → best=%d", a, k, c.Denom, prev, cand)
				}
			}
		}
	}
	return nodes
}

// backtrack follows parent links from (n, target) to (0, 0) and returns the
// coins used per type.
func (t *table) backtrack(target int) ([]int, error) {
	usage := make([]int, t.n)
	i, a := t.n, target
	for i > 0 {
		p, ok := t.parent(i, a)
		if !ok {
			break
		}
		usage[i-1] += p.units
		i, a = p.prefix, p.amount
	}
	if i != 0 || a != 0 {
		return usage, fmt.Errorf("backtracking stopped at cell (%d,%d)", i, a)
	}
	return usage, nil
}

// lastCoin is the denomination of the highest coin type applied on the
// optimal path to amount a. Links with zero units keep the amount, so the
// first non-zero entry walking down the column is the one on the path.
func (t *table) lastCoin(a int) (int, bool) {
	if !t.reachable(t.n, a) {
		return 0, false
	}
	for i := t.n; i > 0; i-- {
		if t.units[t.idx(i, a)] > 0 {
			return t.denoms[i-1], true
		}
	}
	return 0, false
}

// preview reads the last row for amounts 0..min(target, rows-1).
func (t *table) preview(rows int) []domain.TableRow {
	last := min(t.width-1, rows-1)
	out := make([]domain.TableRow, 0, last+1)
	for a := 0; a <= last; a++ {
		row := domain.TableRow{Amount: a}
		if t.reachable(t.n, a) {
			v := t.minCoins(t.n, a)
			row.Reachable = true
			row.MinCoins = &v
			if d, ok := t.lastCoin(a); ok {
				row.LastCoin = &d
			}
		}
		out = append(out, row)
	}
	return out
}
