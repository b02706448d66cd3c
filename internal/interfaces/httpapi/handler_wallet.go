package httpapi

import (
	"net/http"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
)

type adminAdjustRequest struct {
	Amount string `json:"amount" validate:"required"`
	Note   string `json:"note" validate:"max=250"`
}

type referralBonusRequest struct {
	ReferralCode string `json:"referralCode" validate:"required,max=50"`
}

type walletDTO struct {
	UserID    int64  `json:"userId"`
	Balance   string `json:"balance"`
	UpdatedAt string `json:"updatedAt"`
}

type walletTransactionDTO struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Amount    string `json:"amount"`
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	ContestID *int64 `json:"contestId,omitempty"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func walletToDTO(v wallet.Wallet) walletDTO {
	return walletDTO{
		UserID:    v.UserID,
		Balance:   v.Balance.String(),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func walletTransactionToDTO(v wallet.Transaction) walletTransactionDTO {
	return walletTransactionDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		Amount:    v.Amount.String(),
		Kind:      v.Kind,
		Reference: v.Reference,
		ContestID: v.ContestID,
		Note:      v.Note,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWallet")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.walletService.GetWallet(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get wallet failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, walletToDTO(item))
}

func (h *Handler) ListWalletTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWalletTransactions")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, offset, err := queryPagination(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.walletService.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "list wallet transactions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]walletTransactionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, walletTransactionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AdminAdjustWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminAdjustWallet")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req adminAdjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	txn, err := h.walletService.AdminAdjust(ctx, userID, amount, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "admin wallet adjustment failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, walletTransactionToDTO(txn))
}

func (h *Handler) GrantReferralBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GrantReferralBonus")
	defer span.End()

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req referralBonusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.walletService.GrantReferralBonus(ctx, userID, req.ReferralCode); err != nil {
		h.logger.WarnContext(ctx, "grant referral bonus failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"userId": userID})
}
