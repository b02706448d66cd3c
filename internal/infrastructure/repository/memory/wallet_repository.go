package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
)

type WalletRepository struct {
	mu      sync.Mutex
	nextID  int64
	wallets map[int64]wallet.Wallet
	ledger  []wallet.Transaction
}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{nextID: 1, wallets: make(map[int64]wallet.Wallet)}
}

func (r *WalletRepository) GetOrCreate(_ context.Context, userID int64) (wallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreate(userID), nil
}

func (r *WalletRepository) Apply(_ context.Context, txn wallet.Transaction) (wallet.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(txn), nil
}

// Settle holds the lock across the whole pass so either every reversal and
// payout lands or, in memory, they land as one observable step.
func (r *WalletRepository) Settle(_ context.Context, contestID int64, payouts []wallet.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.ledger[:0]
	for _, txn := range r.ledger {
		if txn.Kind == wallet.KindContestWinning && txn.ContestID != nil && *txn.ContestID == contestID {
			w := r.getOrCreate(txn.UserID)
			w.Balance = w.Balance.Sub(txn.Amount)
			w.UpdatedAt = time.Now().UTC()
			r.wallets[txn.UserID] = w
			continue
		}
		kept = append(kept, txn)
	}
	r.ledger = kept

	for _, payout := range payouts {
		r.apply(payout)
	}
	return nil
}

func (r *WalletRepository) ListByContest(_ context.Context, contestID int64, kind string) ([]wallet.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]wallet.Transaction, 0, 8)
	for _, txn := range r.ledger {
		if txn.ContestID == nil || *txn.ContestID != contestID {
			continue
		}
		if kind != "" && txn.Kind != kind {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (r *WalletRepository) ListByUser(_ context.Context, userID int64, limit, offset int) ([]wallet.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]wallet.Transaction, 0, 16)
	for i := len(r.ledger) - 1; i >= 0; i-- {
		if r.ledger[i].UserID == userID {
			out = append(out, r.ledger[i])
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *WalletRepository) getOrCreate(userID int64) wallet.Wallet {
	if w, ok := r.wallets[userID]; ok {
		return w
	}
	now := time.Now().UTC()
	w := wallet.Wallet{UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.wallets[userID] = w
	return w
}

func (r *WalletRepository) apply(txn wallet.Transaction) wallet.Transaction {
	w := r.getOrCreate(txn.UserID)
	w.Balance = w.Balance.Add(txn.Amount)
	w.UpdatedAt = time.Now().UTC()
	r.wallets[txn.UserID] = w

	txn.ID = r.nextID
	r.nextID++
	txn.CreatedAt = time.Now().UTC()
	r.ledger = append(r.ledger, txn)
	return txn
}
