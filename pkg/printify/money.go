package printify

import "github.com/shopspring/decimal"

// Cents converts an API amount (integer cents) to currency units.
func Cents(v int) decimal.Decimal {
	return decimal.New(int64(v), -2)
}

// ToCents converts currency units to the integer cents the API expects,
// rounding half away from zero.
func ToCents(d decimal.Decimal) int {
	return int(d.Shift(2).Round(0).IntPart())
}
