package validator

import (
	"context"
	"fmt"
	"strings"

	"svw.info/changemaker/internal/domain"
)

const (
	DefaultMaxDenominations = 64
	DefaultMaxAmount        = 1_000_000
)

// Issue is a single rejected field.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error lists every issue found in a request, in field order.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid request payload"
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Path + ": " + is.Message
	}
	return strings.Join(parts, "; ")
}

// BoundsValidator enforces the size bounds that keep the DP table tractable.
type BoundsValidator struct {
	MaxDenominations int
	MaxAmount        int
}

func New(maxDenominations, maxAmount int) *BoundsValidator {
	if maxDenominations <= 0 {
		maxDenominations = DefaultMaxDenominations
	}
	if maxAmount <= 0 {
		maxAmount = DefaultMaxAmount
	}
	return &BoundsValidator{MaxDenominations: maxDenominations, MaxAmount: maxAmount}
}

func (v *BoundsValidator) Validate(ctx context.Context, req domain.ChangeRequest) error {
	issues := make([]Issue, 0, 4)
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch n := len(req.Register); {
	case n == 0:
		add("cashRegister", "At least one denomination is required")
	case n > v.MaxDenominations:
		add("cashRegister", "Too many denominations (max %d)", v.MaxDenominations)
	}
	seen := make(map[int]int, len(req.Register))
	for i, c := range req.Register {
		if c.Denom < 0 {
			add(fmt.Sprintf("cashRegister.%d.denom", i), "Number must be greater than or equal to 0")
		}
		if c.Count < 0 {
			add(fmt.Sprintf("cashRegister.%d.count", i), "Number must be greater than or equal to 0")
		}
		if first, ok := seen[c.Denom]; ok {
			add(fmt.Sprintf("cashRegister.%d.denom", i), "Duplicate denomination %d (first at %d)", c.Denom, first)
			continue
		}
		seen[c.Denom] = i
	}

	if req.Amount < 0 {
		add("paymentAmount", "Number must be greater than or equal to 0")
	}
	if req.Amount > v.MaxAmount {
		add("paymentAmount", "Payment amount too large")
	}

	if len(issues) > 0 {
		return &Error{Issues: issues}
	}
	return nil
}
