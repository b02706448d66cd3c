package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// WalletService exposes balance reads and the manual and referral credit
// paths. Every mutation flows through the repository's serialized apply, so
// concurrent payout paths targeting one user cannot lose updates.
type WalletService struct {
	walletRepo  wallet.Repository
	contentRepo content.Repository
	logger      *logging.Logger
}

func NewWalletService(walletRepo wallet.Repository, contentRepo content.Repository, logger *logging.Logger) *WalletService {
	if logger == nil {
		logger = logging.Default()
	}

	return &WalletService{
		walletRepo:  walletRepo,
		contentRepo: contentRepo,
		logger:      logger,
	}
}

func (s *WalletService) GetWallet(ctx context.Context, userID int64) (wallet.Wallet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.GetWallet")
	defer span.End()

	if userID <= 0 {
		return wallet.Wallet{}, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidInput)
	}
	return s.walletRepo.GetOrCreate(ctx, userID)
}

func (s *WalletService) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]wallet.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.ListTransactions")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.walletRepo.ListByUser(ctx, userID, limit, offset)
}

// AdminAdjust credits or debits a wallet from the back office. Debits beyond
// the current balance are rejected.
func (s *WalletService) AdminAdjust(ctx context.Context, userID int64, amount decimal.Decimal, note string) (wallet.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.AdminAdjust")
	defer span.End()

	if userID <= 0 {
		return wallet.Transaction{}, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidInput)
	}
	if amount.IsZero() {
		return wallet.Transaction{}, fmt.Errorf("%w: adjustment amount cannot be zero", ErrInvalidInput)
	}

	kind := wallet.KindAdminCredit
	if amount.IsNegative() {
		kind = wallet.KindAdminDebit
		w, err := s.walletRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return wallet.Transaction{}, fmt.Errorf("load wallet user_id=%d: %w", userID, err)
		}
		if w.Balance.Add(amount).IsNegative() {
			return wallet.Transaction{}, fmt.Errorf("%w: debit of %s exceeds balance %s", ErrConflict, amount.Abs(), w.Balance)
		}
	}

	txn, err := s.walletRepo.Apply(ctx, wallet.Transaction{
		UserID:    userID,
		Amount:    amount,
		Kind:      kind,
		Reference: uuid.NewString(),
		Note:      strings.TrimSpace(note),
	})
	if err != nil {
		return wallet.Transaction{}, fmt.Errorf("apply admin adjustment: %w", err)
	}

	s.logger.InfoContext(ctx, "wallet adjusted by admin", "user_id", userID, "amount", amount.String(), "kind", kind)
	return txn, nil
}

// GrantReferralBonus credits the configured signup bonus once per referral
// reference. Replays with the same reference are ignored.
func (s *WalletService) GrantReferralBonus(ctx context.Context, userID int64, referralCode string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WalletService.GrantReferralBonus")
	defer span.End()

	if userID <= 0 || strings.TrimSpace(referralCode) == "" {
		return fmt.Errorf("%w: user id and referral code are required", ErrInvalidInput)
	}
	if s.contentRepo == nil {
		return fmt.Errorf("%w: referral settings are not configured", ErrDependencyUnavailable)
	}

	settings, err := s.contentRepo.GetReferralSettings(ctx)
	if err != nil {
		return fmt.Errorf("load referral settings: %w", err)
	}
	if !settings.Enabled || settings.Bonus.IsZero() {
		s.logger.InfoContext(ctx, "referral bonus skipped, program disabled", "user_id", userID)
		return nil
	}

	reference := fmt.Sprintf("referral:%d:%s", userID, strings.TrimSpace(referralCode))
	if _, err := s.walletRepo.Apply(ctx, wallet.Transaction{
		UserID:    userID,
		Amount:    settings.Bonus,
		Kind:      wallet.KindReferralBonus,
		Reference: reference,
		Note:      "signup referral bonus",
	}); err != nil {
		return fmt.Errorf("credit referral bonus: %w", err)
	}

	s.logger.InfoContext(ctx, "referral bonus granted", "user_id", userID, "bonus", settings.Bonus.String())
	return nil
}
