package wallet

import "context"

type Repository interface {
	// GetOrCreate returns the user's wallet, creating an empty one on first
	// touch.
	GetOrCreate(ctx context.Context, userID int64) (Wallet, error)
	// Apply adjusts the balance by txn.Amount and inserts the ledger row in
	// one storage transaction, locking the wallet row so concurrent payout
	// paths targeting the same user serialize.
	Apply(ctx context.Context, txn Transaction) (Transaction, error)
	// Settle replaces a contest's winning transactions in one storage
	// transaction: every existing winning for the contest is reversed out of
	// its wallet and deleted, then the given payouts are applied.
	Settle(ctx context.Context, contestID int64, payouts []Transaction) error
	ListByContest(ctx context.Context, contestID int64, kind string) ([]Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Transaction, error)
}
