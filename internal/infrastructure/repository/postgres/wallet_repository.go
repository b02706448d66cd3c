package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type walletTableModel struct {
	UserID    int64           `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type walletTxnTableModel struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Kind      string          `db:"kind"`
	Reference string          `db:"reference"`
	ContestID sql.NullInt64   `db:"contest_id"`
	Note      string          `db:"note"`
	CreatedAt time.Time       `db:"created_at"`
}

func walletTxnFromRow(row walletTxnTableModel) wallet.Transaction {
	return wallet.Transaction{
		ID:        row.ID,
		UserID:    row.UserID,
		Amount:    row.Amount,
		Kind:      row.Kind,
		Reference: row.Reference,
		ContestID: nullInt64ToPtr(row.ContestID),
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}
}

type WalletRepository struct {
	db *sqlx.DB
}

func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetOrCreate(ctx context.Context, userID int64) (wallet.Wallet, error) {
	var row walletTableModel
	err := r.db.GetContext(ctx, &row,
		`INSERT INTO wallets (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING user_id, balance, created_at, updated_at`,
		userID)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("get or create wallet: %w", err)
	}
	return wallet.Wallet{
		UserID:    row.UserID,
		Balance:   row.Balance,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Apply moves the balance and writes the ledger row in one transaction. The
// wallet row is locked first so concurrent settlement and join paths hitting
// the same user serialize.
func (r *WalletRepository) Apply(ctx context.Context, txn wallet.Transaction) (wallet.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wallet.Transaction{}, fmt.Errorf("begin wallet tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out, err := applyTxn(ctx, tx, txn)
	if err != nil {
		return wallet.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return wallet.Transaction{}, fmt.Errorf("commit wallet tx: %w", err)
	}
	return out, nil
}

func applyTxn(ctx context.Context, tx *sqlx.Tx, txn wallet.Transaction) (wallet.Transaction, error) {
	if err := lockWallet(ctx, tx, txn.UserID); err != nil {
		return wallet.Transaction{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE user_id = $2",
		txn.Amount, txn.UserID); err != nil {
		return wallet.Transaction{}, fmt.Errorf("move wallet balance: %w", err)
	}

	query, args, err := qb.InsertInto("wallet_transactions").
		Columns("user_id", "amount", "kind", "reference", "contest_id", "note").
		Values(txn.UserID, txn.Amount, txn.Kind, txn.Reference, int64PtrToNull(txn.ContestID), txn.Note).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return wallet.Transaction{}, fmt.Errorf("build ledger insert query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&txn.ID, &txn.CreatedAt); err != nil {
		return wallet.Transaction{}, fmt.Errorf("insert ledger row: %w", err)
	}
	return txn, nil
}

func lockWallet(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	var row walletTableModel
	err := tx.GetContext(ctx, &row,
		`INSERT INTO wallets (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING user_id, balance, created_at, updated_at`,
		userID)
	if err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}
	return nil
}

// Settle replaces a contest's winning rows in one transaction: every stored
// winning is reversed out of its wallet and deleted, then the fresh payouts
// are applied. Replaying a settlement therefore leaves only the final rows.
func (r *WalletRepository) Settle(ctx context.Context, contestID int64, payouts []wallet.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settle tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Select("*").From("wallet_transactions").
		Where(qb.Eq("contest_id", contestID), qb.Eq("kind", wallet.KindContestWinning)).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build settle select query: %w", err)
	}

	var stale []walletTxnTableModel
	if err := tx.SelectContext(ctx, &stale, query, args...); err != nil {
		return fmt.Errorf("list stale winnings: %w", err)
	}

	for _, row := range stale {
		if err := lockWallet(ctx, tx, row.UserID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE wallets SET balance = balance - $1, updated_at = NOW() WHERE user_id = $2",
			row.Amount, row.UserID); err != nil {
			return fmt.Errorf("reverse stale winning: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM wallet_transactions WHERE id = $1", row.ID); err != nil {
			return fmt.Errorf("delete stale winning: %w", err)
		}
	}

	for _, payout := range payouts {
		if _, err := applyTxn(ctx, tx, payout); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settle tx: %w", err)
	}
	return nil
}

func (r *WalletRepository) ListByContest(ctx context.Context, contestID int64, kind string) ([]wallet.Transaction, error) {
	conditions := []qb.Condition{qb.Eq("contest_id", contestID)}
	if kind != "" {
		conditions = append(conditions, qb.Eq("kind", kind))
	}

	query, args, err := qb.Select("*").From("wallet_transactions").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build contest ledger query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *WalletRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]wallet.Transaction, error) {
	query, args, err := qb.Select("*").From("wallet_transactions").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build user ledger query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *WalletRepository) list(ctx context.Context, query string, args []any) ([]wallet.Transaction, error) {
	var rows []walletTxnTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger rows: %w", err)
	}

	out := make([]wallet.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, walletTxnFromRow(row))
	}
	return out, nil
}
