package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the pgx-backed ledger. Atomicity for the
// check-then-mutate sequences comes from row locks: the singleton state row
// is taken FOR UPDATE before the cap check, and balance rows are taken FOR
// UPDATE before the withdrawal check, so concurrent operations serialize at
// the database instead of in process.
type LedgerRepository struct {
	pool    *pgxpool.Pool
	bankCap decimal.Decimal
}

var _ ports.LedgerRepository = (*LedgerRepository)(nil)

// NewLedgerRepository creates a ledger repository with the immutable cap.
func NewLedgerRepository(pool *pgxpool.Pool, bankCap decimal.Decimal) *LedgerRepository {
	return &LedgerRepository{pool: pool, bankCap: bankCap}
}

// RecordDeposit locks the ledger state row, checks the cap, then upserts the
// balance and advances total and counter in one transaction.
func (r *LedgerRepository) RecordDeposit(ctx context.Context, ownerID string, assetID domain.AssetID, amount, usdValue decimal.Decimal) error {
	if amount.IsNegative() || usdValue.IsNegative() {
		return fmt.Errorf("%w: deposit amounts must not be negative", apperrors.ErrValidation)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin deposit transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentTotal decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT total_value FROM ledger_state WHERE id = 1 FOR UPDATE;`).Scan(&currentTotal)
	if err != nil {
		return fmt.Errorf("failed to lock ledger state: %w", err)
	}

	newTotal := currentTotal.Add(usdValue)
	if newTotal.GreaterThan(r.bankCap) {
		return &apperrors.CapExceededError{
			Cap:            r.bankCap,
			CurrentTotal:   currentTotal,
			AttemptedValue: usdValue,
		}
	}

	upsertBalance := `
		INSERT INTO ledger_balances (owner_id, asset_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, asset_id) DO UPDATE SET
			amount = ledger_balances.amount + EXCLUDED.amount;
	`
	if _, err = tx.Exec(ctx, upsertBalance, ownerID, assetID, amount); err != nil {
		return fmt.Errorf("failed to credit balance for owner %s asset %s: %w", ownerID, assetID, err)
	}

	updateState := `
		UPDATE ledger_state
		SET total_value = $1, deposit_count = deposit_count + 1
		WHERE id = 1;
	`
	if _, err = tx.Exec(ctx, updateState, newTotal); err != nil {
		return fmt.Errorf("failed to update ledger state: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deposit: %w", err)
	}
	return nil
}

// RecordWithdrawal locks the balance row, checks it, and decrements it. The
// global total is intentionally not decremented.
func (r *LedgerRepository) RecordWithdrawal(ctx context.Context, ownerID string, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: withdrawal amount must not be negative", apperrors.ErrValidation)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin withdrawal transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT amount FROM ledger_balances WHERE owner_id = $1 AND asset_id = $2 FOR UPDATE;`,
		ownerID, assetID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			balance = decimal.Zero
		} else {
			return fmt.Errorf("failed to lock balance for owner %s asset %s: %w", ownerID, assetID, err)
		}
	}

	if balance.LessThan(amount) {
		return &apperrors.InsufficientFundsError{
			OwnerID:   ownerID,
			AssetID:   assetID.String(),
			Balance:   balance,
			Requested: amount,
		}
	}

	updateBalance := `
		UPDATE ledger_balances
		SET amount = amount - $3
		WHERE owner_id = $1 AND asset_id = $2;
	`
	if _, err = tx.Exec(ctx, updateBalance, ownerID, assetID, amount); err != nil {
		return fmt.Errorf("failed to debit balance for owner %s asset %s: %w", ownerID, assetID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit withdrawal: %w", err)
	}
	return nil
}

// BalanceOf returns zero for unseen (owner, asset) pairs.
func (r *LedgerRepository) BalanceOf(ctx context.Context, ownerID string, assetID domain.AssetID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT amount FROM ledger_balances WHERE owner_id = $1 AND asset_id = $2;`,
		ownerID, assetID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read balance for owner %s asset %s: %w", ownerID, assetID, err)
	}
	return balance, nil
}

// TotalValue reads the cumulative deposited value.
func (r *LedgerRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT total_value FROM ledger_state WHERE id = 1;`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read total value: %w", err)
	}
	return total, nil
}

// DepositCount reads the accepted-deposit counter.
func (r *LedgerRepository) DepositCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT deposit_count FROM ledger_state WHERE id = 1;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to read deposit count: %w", err)
	}
	return count, nil
}

// BankCap returns the immutable cap fixed at construction.
func (r *LedgerRepository) BankCap() decimal.Decimal {
	return r.bankCap
}

// CreditCustody adds to the asset's custodied amount.
func (r *LedgerRepository) CreditCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: custody amount must not be negative", apperrors.ErrValidation)
	}
	upsert := `
		INSERT INTO ledger_custody (asset_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (asset_id) DO UPDATE SET
			amount = ledger_custody.amount + EXCLUDED.amount;
	`
	if _, err := r.pool.Exec(ctx, upsert, assetID, amount); err != nil {
		return fmt.Errorf("failed to credit custody for asset %s: %w", assetID, err)
	}
	return nil
}

// DebitCustody removes from the asset's custodied amount.
func (r *LedgerRepository) DebitCustody(ctx context.Context, assetID domain.AssetID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: custody amount must not be negative", apperrors.ErrValidation)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin custody transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var held decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT amount FROM ledger_custody WHERE asset_id = $1 FOR UPDATE;`, assetID).Scan(&held)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			held = decimal.Zero
		} else {
			return fmt.Errorf("failed to lock custody for asset %s: %w", assetID, err)
		}
	}

	if held.LessThan(amount) {
		return fmt.Errorf("%w: custody debit %s exceeds held %s for asset %s", apperrors.ErrValidation, amount, held, assetID)
	}

	if _, err = tx.Exec(ctx, `UPDATE ledger_custody SET amount = amount - $2 WHERE asset_id = $1;`, assetID, amount); err != nil {
		return fmt.Errorf("failed to debit custody for asset %s: %w", assetID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit custody debit: %w", err)
	}
	return nil
}

// CustodyOf returns the custodied amount for an asset, zero if unseen.
func (r *LedgerRepository) CustodyOf(ctx context.Context, assetID domain.AssetID) (decimal.Decimal, error) {
	var held decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT amount FROM ledger_custody WHERE asset_id = $1;`, assetID).Scan(&held)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read custody for asset %s: %w", assetID, err)
	}
	return held, nil
}
