package domain

// FailureKind classifies why a change computation did not succeed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureEmptyRegister
	FailureInsufficientBalance
	// FailureNoExactSolution means no combination of the available coins sums
	// to the target. A negative target lands here too, with its own message;
	// callers are expected to reject it before solving.
	FailureNoExactSolution
	FailureInternalInconsistency
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return ""
	case FailureEmptyRegister:
		return "EmptyRegister"
	case FailureInsufficientBalance:
		return "InsufficientBalance"
	case FailureNoExactSolution:
		return "NoExactSolution"
	case FailureInternalInconsistency:
		return "InternalInconsistency"
	default:
		return "Unknown"
	}
}

// MarshalText renders the kind by name so JSON payloads stay readable.
func (k FailureKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Sentinel returns the sentinel error matching the kind, or nil.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureEmptyRegister:
		return ErrEmptyRegister
	case FailureInsufficientBalance:
		return ErrInsufficientBalance
	case FailureNoExactSolution:
		return ErrNoExactSolution
	case FailureInternalInconsistency:
		return ErrInternalInconsistency
	default:
		return nil
	}
}
