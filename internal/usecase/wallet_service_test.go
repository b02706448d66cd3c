package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
	"github.com/ovrplay/fantasy-cricket/internal/infrastructure/repository/memory"
)

func TestWalletService_AdminAdjust(t *testing.T) {
	t.Parallel()

	walletRepo := memory.NewWalletRepository()
	service := NewWalletService(walletRepo, memory.NewContentRepository(), nil)
	ctx := context.Background()

	txn, err := service.AdminAdjust(ctx, 1, pts("100"), "goodwill credit")
	if err != nil {
		t.Fatalf("credit error: %v", err)
	}
	if txn.Kind != wallet.KindAdminCredit {
		t.Fatalf("unexpected kind: got=%s want=%s", txn.Kind, wallet.KindAdminCredit)
	}

	if _, err := service.AdminAdjust(ctx, 1, pts("-40"), "correction"); err != nil {
		t.Fatalf("debit error: %v", err)
	}

	w, err := service.GetWallet(ctx, 1)
	if err != nil {
		t.Fatalf("GetWallet error: %v", err)
	}
	if !w.Balance.Equal(pts("60")) {
		t.Fatalf("unexpected balance: got=%s want=60", w.Balance)
	}
}

func TestWalletService_AdminAdjust_Rejections(t *testing.T) {
	t.Parallel()

	walletRepo := memory.NewWalletRepository()
	service := NewWalletService(walletRepo, memory.NewContentRepository(), nil)
	ctx := context.Background()

	if _, err := service.AdminAdjust(ctx, 1, pts("0"), "noop"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for a zero adjustment, got: %v", err)
	}

	// Debit beyond the balance.
	if _, err := service.AdminAdjust(ctx, 1, pts("-10"), "overdraft"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for an overdraft, got: %v", err)
	}
}

func TestWalletService_GrantReferralBonus(t *testing.T) {
	t.Parallel()

	walletRepo := memory.NewWalletRepository()
	contentRepo := memory.NewContentRepository()
	service := NewWalletService(walletRepo, contentRepo, nil)
	ctx := context.Background()

	// Program disabled: no transaction is written.
	if err := service.GrantReferralBonus(ctx, 1, "FRIEND50"); err != nil {
		t.Fatalf("disabled grant error: %v", err)
	}
	txns, err := walletRepo.ListByUser(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("disabled program must not credit: got=%d transactions", len(txns))
	}

	if err := contentRepo.SaveReferralSettings(ctx, content.ReferralSettings{Enabled: true, Bonus: pts("50")}); err != nil {
		t.Fatalf("enable referral program: %v", err)
	}
	if err := service.GrantReferralBonus(ctx, 1, "FRIEND50"); err != nil {
		t.Fatalf("grant error: %v", err)
	}

	w, err := service.GetWallet(ctx, 1)
	if err != nil {
		t.Fatalf("GetWallet error: %v", err)
	}
	if !w.Balance.Equal(pts("50")) {
		t.Fatalf("unexpected balance: got=%s want=50", w.Balance)
	}

	txns, err = walletRepo.ListByUser(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("unexpected transaction count: got=%d want=1", len(txns))
	}
	if txns[0].Reference != "referral:1:FRIEND50" {
		t.Fatalf("unexpected reference: got=%s", txns[0].Reference)
	}
}

func TestWalletService_ListTransactions_ClampsLimit(t *testing.T) {
	t.Parallel()

	walletRepo := memory.NewWalletRepository()
	service := NewWalletService(walletRepo, memory.NewContentRepository(), nil)
	ctx := context.Background()

	if _, err := service.ListTransactions(ctx, 0, 10, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for user id zero, got: %v", err)
	}
	if _, err := service.ListTransactions(ctx, 1, 500, 0); err != nil {
		t.Fatalf("oversized limit should be clamped, got: %v", err)
	}
}
