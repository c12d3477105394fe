package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrArithmeticOverflow indicates a fixed-point conversion outside the
// supported precision range. Nothing is partially committed when it occurs.
var ErrArithmeticOverflow = errors.New("arithmetic overflow")

// ErrOracleInvalidPrice indicates the price feed reported a non-positive price.
var ErrOracleInvalidPrice = errors.New("oracle reported invalid price")

// ErrOracleStalePrice indicates the price feed's last update is older than the
// configured heartbeat. Staleness fails closed; no retry is attempted here.
var ErrOracleStalePrice = errors.New("oracle price is stale")

// CapExceededError is returned when a deposit would push the global deposited
// value past the bank cap. The deposit is fully aborted; the fields carry the
// diagnostics for the caller.
type CapExceededError struct {
	Cap            decimal.Decimal
	CurrentTotal   decimal.Decimal
	AttemptedValue decimal.Decimal
}

func (e *CapExceededError) Error() string {
	return fmt.Sprintf("bank cap exceeded: cap=%s currentTotal=%s attemptedValue=%s",
		e.Cap, e.CurrentTotal, e.AttemptedValue)
}

// InsufficientFundsError is returned when a withdrawal requests more than the
// owner's recorded balance for the asset. The withdrawal is fully aborted.
type InsufficientFundsError struct {
	OwnerID   string
	AssetID   string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: owner=%s asset=%s balance=%s requested=%s",
		e.OwnerID, e.AssetID, e.Balance, e.Requested)
}

// TransferFailedError is returned when the external transfer collaborator
// fails. For deposits the pull happens before any ledger mutation, so the
// ledger is untouched. For withdrawals the push happens after the balance
// decrement has committed; the decrement is NOT rolled back here and
// compensation is the surrounding system's responsibility.
type TransferFailedError struct {
	Op      string // "pull" or "push"
	OwnerID string
	AssetID string
	Amount  decimal.Decimal
	Err     error
}

func (e *TransferFailedError) Error() string {
	return fmt.Sprintf("transfer %s failed: owner=%s asset=%s amount=%s: %v",
		e.Op, e.OwnerID, e.AssetID, e.Amount, e.Err)
}

func (e *TransferFailedError) Unwrap() error {
	return e.Err
}
