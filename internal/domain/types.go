package domain

import "slices"

// CoinSlot is one denomination's availability in the register.
// Denom and Count are in minor units (cents) and pieces respectively.
type CoinSlot struct {
	Denom int `json:"denom"`
	Count int `json:"count"`
}

// Register is an ordered collection of coin slots.
type Register []CoinSlot

// Clone returns an independent copy of the register.
func (r Register) Clone() Register {
	return slices.Clone(r)
}

// Total returns the value held by the register. It stops summing once the
// total reaches limit (when limit > 0) so huge registers cannot overflow.
func (r Register) Total(limit int) int {
	total := 0
	for _, s := range r {
		if s.Denom <= 0 || s.Count <= 0 {
			continue
		}
		if limit > 0 && s.Count >= (limit-total+s.Denom-1)/s.Denom {
			return limit
		}
		total += s.Denom * s.Count
	}
	return total
}

// Denoms lists the denominations in register order.
func (r Register) Denoms() []int {
	out := make([]int, len(r))
	for i, s := range r {
		out[i] = s.Denom
	}
	return out
}

// ChangeRequest is the input of a single change computation.
type ChangeRequest struct {
	Register Register `json:"cashRegister"`
	Amount   int      `json:"paymentAmount"`
	Debug    bool     `json:"debug,omitempty"`
}

// Result is the outcome of a change computation. Failures are values, not errors;
// use Err to obtain a matching error.
type Result struct {
	Success         bool           `json:"success"`
	Message         string         `json:"message"`
	Failure         FailureKind    `json:"failure,omitempty"`
	Change          []int          `json:"change"`
	CoinUsage       map[int]int    `json:"coinUsage"`
	UpdatedRegister Register       `json:"updatedRegister"`
	Debug           *DebugSnapshot `json:"debug,omitempty"`
}

// Err returns nil for a successful result and a *ChangeError otherwise.
func (r *Result) Err() error {
	if r == nil || r.Success {
		return nil
	}
	return &ChangeError{Kind: r.Failure, Msg: r.Message}
}

// CoinCount is the number of coins handed out.
func (r *Result) CoinCount() int { return len(r.Change) }

// Clone deep-copies the result so cached values can be handed out safely.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Change = slices.Clone(r.Change)
	out.CoinUsage = cloneUsage(r.CoinUsage)
	out.UpdatedRegister = r.UpdatedRegister.Clone()
	out.Debug = r.Debug.Clone()
	return &out
}

// TableRow is one amount of the DP table preview, read from the last row.
type TableRow struct {
	Amount    int  `json:"amount"`
	Reachable bool `json:"reachable"`
	MinCoins  *int `json:"minCoins"`
	LastCoin  *int `json:"lastCoin"`
}

// NaiveSummary reports the unbounded reference solver run.
type NaiveSummary struct {
	Enabled     bool        `json:"enabled"`
	AmountTried int         `json:"amountTried"`
	ResultCoins *int        `json:"resultCoins"`
	Calls       int         `json:"calls"`
	Truncated   bool        `json:"truncated"`
	UsedCoins   []int       `json:"usedCoins,omitempty"`
	UsageMap    map[int]int `json:"usageMap,omitempty"`
}

// DebugSnapshot is the optional diagnostic payload attached to a Result.
type DebugSnapshot struct {
	TargetAmount     int          `json:"targetAmount"`
	CoinSet          []int        `json:"coinSet"`
	RegisterSnapshot Register     `json:"registerSnapshot"`
	DPTablePreview   []TableRow   `json:"dpTablePreview"`
	Trace            []string     `json:"trace"`
	Naive            NaiveSummary `json:"naive"`
}

func (d *DebugSnapshot) Clone() *DebugSnapshot {
	if d == nil {
		return nil
	}
	out := *d
	out.CoinSet = slices.Clone(d.CoinSet)
	out.RegisterSnapshot = d.RegisterSnapshot.Clone()
	out.DPTablePreview = slices.Clone(d.DPTablePreview)
	out.Trace = slices.Clone(d.Trace)
	out.Naive.UsedCoins = slices.Clone(d.Naive.UsedCoins)
	out.Naive.UsageMap = cloneUsage(d.Naive.UsageMap)
	return &out
}

func cloneUsage(m map[int]int) map[int]int {
	if m == nil {
		return nil
	}
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Product is a catalog entry sold by the machine. Price is in minor units.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description,omitempty"`
}

// State is the full machine state as exchanged by import/export.
type State struct {
	Register Register          `json:"register"`
	Products []Product         `json:"products"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// Purchase is the receipt of a completed or attempted sale.
type Purchase struct {
	ID            string  `json:"id"`
	Product       Product `json:"product"`
	Paid          int     `json:"paid"`
	ChangeDue     int     `json:"changeDue"`
	RoundedChange int     `json:"roundedChange"`
	Result        *Result `json:"result"`
}
