// Package fixedpoint rescales integer amounts between fixed-point precisions.
// All internal bank accounting uses InternalDecimals; assets arrive in their
// issuer-defined native precision and are normalized on the way in.
package fixedpoint

import (
	"fmt"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InternalDecimals is the common accounting-unit precision shared by all
// balances and the global total. Chosen to mirror a common stablecoin.
const InternalDecimals int32 = 6

// MaxAssetDecimals bounds the precisions accepted from asset metadata.
// Conversions outside this range fail rather than producing nonsense scales.
const MaxAssetDecimals int32 = 38

// Normalize converts a non-negative integer amount at fromDecimals precision
// into the internal accounting precision.
//
// Scaling up (fromDecimals < InternalDecimals) is exact. Scaling down
// truncates: the fractional remainder below the internal unit is discarded.
// That loss is deliberate and mirrored by the custody accounting, not a bug.
func Normalize(amount decimal.Decimal, fromDecimals int32) (decimal.Decimal, error) {
	if err := checkPrecision(fromDecimals); err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrValidation, amount)
	}
	return amount.Shift(InternalDecimals - fromDecimals).Truncate(0), nil
}

// Expand rescales an internal-precision amount back to toDecimals precision.
// Expansion to a precision >= InternalDecimals is exact; expansion below it
// truncates the same way Normalize does.
func Expand(amount decimal.Decimal, toDecimals int32) (decimal.Decimal, error) {
	if err := checkPrecision(toDecimals); err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrValidation, amount)
	}
	return amount.Shift(toDecimals - InternalDecimals).Truncate(0), nil
}

func checkPrecision(decimals int32) error {
	if decimals < 0 || decimals > MaxAssetDecimals {
		return fmt.Errorf("%w: unsupported precision %d", apperrors.ErrArithmeticOverflow, decimals)
	}
	return nil
}
