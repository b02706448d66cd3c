package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindContestWinning = "contest_winning"
	KindContestEntry   = "contest_entry"
	KindReferralBonus  = "referral_bonus"
	KindAdminCredit    = "admin_credit"
	KindAdminDebit     = "admin_debit"
	KindReversal       = "reversal"
)

// Wallet holds a user's balance. Every balance change is paired with a
// Transaction row written in the same storage transaction.
type Wallet struct {
	UserID    int64
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is one signed ledger movement. Amount is positive for credits
// and negative for debits; Reference is a unique idempotency handle.
type Transaction struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Kind      string
	Reference string
	ContestID *int64
	Note      string
	CreatedAt time.Time
}
