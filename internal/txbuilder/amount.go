package txbuilder

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ToSmallestUnit scales a human-readable amount by 10^decimals and
// truncates to an integer. Truncation, never rounding: the scaled value can
// only ever authorize less than what the user typed.
func ToSmallestUnit(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, errors.Errorf("amount must be positive, got %s", amount)
	}
	scaled := amount.Shift(int32(decimals)).Truncate(0)
	if scaled.Sign() <= 0 {
		return nil, errors.Errorf("amount %s is below the smallest unit", amount)
	}
	return scaled.BigInt(), nil
}

// FromSmallestUnit is the inverse scaling for display purposes. Exact for
// every integral input, so FromSmallestUnit then ToSmallestUnit round-trips.
func FromSmallestUnit(value *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(value, 0).Shift(-int32(decimals))
}
