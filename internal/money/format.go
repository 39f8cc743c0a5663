// Package money renders and rounds amounts held in minor units (cents).
package money

import "github.com/shopspring/decimal"

// Format renders cents for display: 150 -> "$1.50", 50 -> "50c".
func Format(cents int) string {
	if cents >= 100 {
		return "$" + decimal.New(int64(cents), -2).StringFixed(2)
	}
	return decimal.NewFromInt(int64(cents)).String() + "c"
}

// RoundToNearest5 rounds an amount to the closest multiple of 5 the machine can pay out.
// Last digits 0-2 round down to 0, 3-4 up to 5, 5-7 to 5 and 8-9 up to 10.
func RoundToNearest5(amount int) int {
	last := amount % 10
	switch {
	case last <= 2:
		return amount - last
	case last <= 4:
		return amount + (5 - last)
	case last <= 7:
		return amount - (last - 5)
	default:
		return amount + (10 - last)
	}
}
