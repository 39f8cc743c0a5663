package solver

const (
	DefaultPreviewRows    = 500
	DefaultTraceLines     = 120
	DefaultNaiveMaxAmount = 8000
	DefaultNaiveMaxCalls  = 5000
)

// Limits caps the work done by the debug instrumentation. The DP itself is
// bounded by the caller's validation of register size and amount.
type Limits struct {
	PreviewRows    int // rows of the DP preview, amounts 0..PreviewRows-1 at most
	TraceLines     int // recorded trace lines before the truncation marker
	NaiveMaxAmount int // targets above this skip the naive solver
	NaiveMaxCalls  int // recursive call budget of the naive solver
}

func DefaultLimits() Limits {
	return Limits{
		PreviewRows:    DefaultPreviewRows,
		TraceLines:     DefaultTraceLines,
		NaiveMaxAmount: DefaultNaiveMaxAmount,
		NaiveMaxCalls:  DefaultNaiveMaxCalls,
	}
}

// withDefaults fills zero or negative fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.PreviewRows <= 0 {
		l.PreviewRows = d.PreviewRows
	}
	if l.TraceLines <= 0 {
		l.TraceLines = d.TraceLines
	}
	if l.NaiveMaxAmount <= 0 {
		l.NaiveMaxAmount = d.NaiveMaxAmount
	}
	if l.NaiveMaxCalls <= 0 {
		l.NaiveMaxCalls = d.NaiveMaxCalls
	}
	return l
}
