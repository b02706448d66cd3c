package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/contest"
	"github.com/ovrplay/fantasy-cricket/internal/domain/fantasy"
	"github.com/ovrplay/fantasy-cricket/internal/domain/match"
	"github.com/ovrplay/fantasy-cricket/internal/domain/wallet"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

type pointsComputer interface {
	ComputeMatchPoints(ctx context.Context, matchID int64) (map[int64]decimal.Decimal, error)
}

// ContestService owns the contest lifecycle: creation validation, joining,
// ranking, and settlement into wallets. Settlement is replayable: every run
// reverses the previous payouts before applying the payouts of the current
// leaderboard, so a statistics correction followed by a re-run leaves only
// the final payouts behind.
type ContestService struct {
	contestRepo contest.Repository
	matchRepo   match.Repository
	fantasyRepo fantasy.Repository
	walletRepo  wallet.Repository
	points      pointsComputer
	logger      *logging.Logger
}

func NewContestService(
	contestRepo contest.Repository,
	matchRepo match.Repository,
	fantasyRepo fantasy.Repository,
	walletRepo wallet.Repository,
	points pointsComputer,
	logger *logging.Logger,
) *ContestService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ContestService{
		contestRepo: contestRepo,
		matchRepo:   matchRepo,
		fantasyRepo: fantasyRepo,
		walletRepo:  walletRepo,
		points:      points,
		logger:      logger,
	}
}

// CreateContest validates the economics and winnings table, normalizes the
// table to full rank coverage, and stores the contest against an upcoming
// match.
func (s *ContestService) CreateContest(ctx context.Context, c contest.Contest) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.CreateContest")
	defer span.End()

	item, found, err := s.matchRepo.GetByID(ctx, c.MatchID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("load match id=%d: %w", c.MatchID, err)
	}
	if !found {
		return contest.Contest{}, fmt.Errorf("%w: match id=%d", ErrNotFound, c.MatchID)
	}
	if item.Status != match.StatusNotStarted && item.Status != match.StatusToss {
		return contest.Contest{}, fmt.Errorf("%w: contests can only be created before the match starts, match status is %s", ErrConflict, item.Status)
	}

	// Entry window defaults to now until the first ball.
	now := time.Now()
	if c.StartsAt.IsZero() && c.EndsAt.IsZero() && item.StartsAt.After(now) {
		c.StartsAt = now
		c.EndsAt = item.StartsAt
	}

	if err := c.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	c.Status = contest.StatusOpen
	c.FilledSpots = 0

	created, err := s.contestRepo.Create(ctx, c)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	s.logger.InfoContext(ctx, "contest created",
		"contest_id", created.ID,
		"match_id", created.MatchID,
		"type", created.Type,
		"total_spots", created.TotalSpots,
	)
	return created, nil
}

// UpdateContest edits a stored contest. Economics, spots, type, and the
// winnings table freeze once any spot is filled; the name and per-user
// entry limit stay editable throughout. The match binding never moves.
func (s *ContestService) UpdateContest(ctx context.Context, c contest.Contest) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.UpdateContest")
	defer span.End()

	if c.ID <= 0 {
		return contest.Contest{}, fmt.Errorf("%w: contest id must be greater than zero", ErrInvalidInput)
	}
	current, found, err := s.contestRepo.GetByID(ctx, c.ID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("load contest id=%d: %w", c.ID, err)
	}
	if !found || current.Status == contest.StatusDeleted {
		return contest.Contest{}, fmt.Errorf("%w: contest id=%d", ErrNotFound, c.ID)
	}

	c.MatchID = current.MatchID
	c.Status = current.Status
	c.FilledSpots = current.FilledSpots
	if c.StartsAt.IsZero() && c.EndsAt.IsZero() {
		c.StartsAt = current.StartsAt
		c.EndsAt = current.EndsAt
	}
	if err := c.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if current.FilledSpots > 0 && contestStructureDiffers(current, c) {
		return contest.Contest{}, fmt.Errorf("%w: contest %d already has entries, structural fields are frozen", ErrConflict, c.ID)
	}

	if err := s.contestRepo.Update(ctx, c); err != nil {
		return contest.Contest{}, fmt.Errorf("update contest: %w", err)
	}
	s.logger.InfoContext(ctx, "contest updated", "contest_id", c.ID, "match_id", c.MatchID)
	return c, nil
}

// contestStructureDiffers compares the fields that change the contest's
// economics. Both sides carry normalized winnings tables.
func contestStructureDiffers(a, b contest.Contest) bool {
	if a.TotalSpots != b.TotalSpots || a.Type != b.Type {
		return true
	}
	if !a.EntryFee.Equal(b.EntryFee) || !a.PrizePool.Equal(b.PrizePool) || !a.CommissionPct.Equal(b.CommissionPct) {
		return true
	}
	if len(a.Winnings) != len(b.Winnings) {
		return true
	}
	for i := range a.Winnings {
		if a.Winnings[i].From != b.Winnings[i].From ||
			a.Winnings[i].To != b.Winnings[i].To ||
			!a.Winnings[i].Price.Equal(b.Winnings[i].Price) {
			return true
		}
	}
	return false
}

// JoinContest enters a fantasy team into an open contest, debiting the entry
// fee for paid contests. The spot is claimed atomically against the filled
// count, so a full contest rejects the join with a conflict.
func (s *ContestService) JoinContest(ctx context.Context, contestID, userID, fantasyTeamID int64) (contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.JoinContest")
	defer span.End()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("load contest id=%d: %w", contestID, err)
	}
	if !found {
		return contest.Entry{}, fmt.Errorf("%w: contest id=%d", ErrNotFound, contestID)
	}
	if c.Status != contest.StatusOpen {
		return contest.Entry{}, fmt.Errorf("%w: contest is %s, joins are closed", ErrConflict, c.Status)
	}
	if !c.StartsAt.IsZero() {
		now := time.Now()
		if now.Before(c.StartsAt) || !now.Before(c.EndsAt) {
			return contest.Entry{}, fmt.Errorf("%w: contest entry window is closed", ErrConflict)
		}
	}

	item, found, err := s.matchRepo.GetByID(ctx, c.MatchID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("load match id=%d: %w", c.MatchID, err)
	}
	if !found {
		return contest.Entry{}, fmt.Errorf("%w: match id=%d", ErrNotFound, c.MatchID)
	}
	if item.Status != match.StatusNotStarted && item.Status != match.StatusToss {
		return contest.Entry{}, fmt.Errorf("%w: match has started, joins are closed", ErrConflict)
	}

	team, found, err := s.fantasyRepo.GetByID(ctx, fantasyTeamID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("load fantasy team id=%d: %w", fantasyTeamID, err)
	}
	if !found {
		return contest.Entry{}, fmt.Errorf("%w: fantasy team id=%d", ErrNotFound, fantasyTeamID)
	}
	if team.UserID != userID {
		return contest.Entry{}, fmt.Errorf("%w: fantasy team does not belong to the joining user", ErrUnauthorized)
	}
	if team.MatchID != c.MatchID {
		return contest.Entry{}, fmt.Errorf("%w: fantasy team was built for a different match", ErrInvalidInput)
	}

	used, err := s.contestRepo.CountEntriesByUser(ctx, contestID, userID)
	if err != nil {
		return contest.Entry{}, fmt.Errorf("count user entries contest_id=%d: %w", contestID, err)
	}
	if used >= c.MaxEntriesPerUser {
		return contest.Entry{}, fmt.Errorf("%w: entry limit of %d reached for this contest", ErrConflict, c.MaxEntriesPerUser)
	}

	if !c.IsFree() {
		w, err := s.walletRepo.GetOrCreate(ctx, userID)
		if err != nil {
			return contest.Entry{}, fmt.Errorf("load wallet user_id=%d: %w", userID, err)
		}
		if w.Balance.LessThan(c.EntryFee) {
			return contest.Entry{}, fmt.Errorf("%w: wallet balance %s is below the entry fee %s", ErrConflict, w.Balance, c.EntryFee)
		}
		cid := c.ID
		if _, err := s.walletRepo.Apply(ctx, wallet.Transaction{
			UserID:    userID,
			Amount:    c.EntryFee.Neg(),
			Kind:      wallet.KindContestEntry,
			Reference: uuid.NewString(),
			ContestID: &cid,
			Note:      fmt.Sprintf("entry fee for contest %s", c.Name),
		}); err != nil {
			return contest.Entry{}, fmt.Errorf("debit entry fee: %w", err)
		}
	}

	entry, err := s.contestRepo.AddEntry(ctx, contest.Entry{
		ContestID:     contestID,
		UserID:        userID,
		FantasyTeamID: fantasyTeamID,
	})
	if err != nil {
		// Joining failed after the fee was taken; money goes straight back.
		if !c.IsFree() {
			cid := c.ID
			if _, refundErr := s.walletRepo.Apply(ctx, wallet.Transaction{
				UserID:    userID,
				Amount:    c.EntryFee,
				Kind:      wallet.KindReversal,
				Reference: uuid.NewString(),
				ContestID: &cid,
				Note:      "entry fee refund after failed join",
			}); refundErr != nil {
				s.logger.ErrorContext(ctx, "entry fee refund failed",
					"contest_id", contestID,
					"user_id", userID,
					"error", refundErr,
				)
			}
		}
		if errors.Is(err, contest.ErrNoSpots) {
			return contest.Entry{}, fmt.Errorf("%w: contest is full", ErrConflict)
		}
		return contest.Entry{}, fmt.Errorf("add contest entry: %w", err)
	}

	s.logger.InfoContext(ctx, "contest joined", "contest_id", contestID, "user_id", userID, "entry_id", entry.ID)
	return entry, nil
}

// OnMatchFinished recomputes points, ranks every contest of the match, and
// settles payouts. It is safe to call again after statistics corrections.
func (s *ContestService) OnMatchFinished(ctx context.Context, matchID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.OnMatchFinished")
	defer span.End()

	if s.points == nil {
		return fmt.Errorf("%w: contest settlement is not fully configured", ErrDependencyUnavailable)
	}
	if _, err := s.points.ComputeMatchPoints(ctx, matchID); err != nil {
		return fmt.Errorf("compute match points match_id=%d: %w", matchID, err)
	}

	contests, err := s.contestRepo.ListByMatch(ctx, matchID, "")
	if err != nil {
		return fmt.Errorf("list contests match_id=%d: %w", matchID, err)
	}

	var settled, failed int
	for _, c := range contests {
		if c.Status == contest.StatusDeleted {
			continue
		}
		if err := s.settleContest(ctx, c); err != nil {
			failed++
			s.logger.WarnContext(ctx, "settle contest failed, continuing with next", "contest_id", c.ID, "error", err)
			continue
		}
		settled++
	}

	s.logger.InfoContext(ctx, "match contests settled", "match_id", matchID, "settled", settled, "failed", failed)
	return nil
}

// Resettle re-runs ranking and payouts for one contest after a correction.
func (s *ContestService) Resettle(ctx context.Context, contestID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Resettle")
	defer span.End()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("load contest id=%d: %w", contestID, err)
	}
	if !found {
		return fmt.Errorf("%w: contest id=%d", ErrNotFound, contestID)
	}
	if s.points != nil {
		if _, err := s.points.ComputeMatchPoints(ctx, c.MatchID); err != nil {
			return fmt.Errorf("compute match points match_id=%d: %w", c.MatchID, err)
		}
	}
	return s.settleContest(ctx, c)
}

func (s *ContestService) settleContest(ctx context.Context, c contest.Contest) error {
	ranked, err := s.rankEntries(ctx, c.ID)
	if err != nil {
		return err
	}
	if err := s.contestRepo.UpdateEntryRanks(ctx, ranked); err != nil {
		return fmt.Errorf("store contest ranks contest_id=%d: %w", c.ID, err)
	}

	payouts := make([]wallet.Transaction, 0, len(ranked))
	for _, entry := range ranked {
		prize := c.PrizeForRank(entry.Rank)
		if prize.IsZero() {
			continue
		}
		cid := c.ID
		payouts = append(payouts, wallet.Transaction{
			UserID:    entry.UserID,
			Amount:    prize,
			Kind:      wallet.KindContestWinning,
			Reference: uuid.NewString(),
			ContestID: &cid,
			Note:      fmt.Sprintf("winnings for rank %d in contest %s", entry.Rank, c.Name),
		})
	}

	if err := s.walletRepo.Settle(ctx, c.ID, payouts); err != nil {
		return fmt.Errorf("settle contest payouts contest_id=%d: %w", c.ID, err)
	}

	c.Status = contest.StatusCompleted
	if err := s.contestRepo.Update(ctx, c); err != nil {
		return fmt.Errorf("mark contest completed contest_id=%d: %w", c.ID, err)
	}
	return nil
}

// rankEntries orders entries by points descending and assigns competition
// ranks: tied entries share a rank and the next rank skips the tie group, so
// points of 50, 50, 30 rank as 1, 1, 3. Entry id breaks the sort order for
// determinism without affecting shared ranks.
func (s *ContestService) rankEntries(ctx context.Context, contestID int64) ([]contest.Entry, error) {
	entries, err := s.contestRepo.ListEntries(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("list contest entries contest_id=%d: %w", contestID, err)
	}

	for idx, entry := range entries {
		team, found, err := s.fantasyRepo.GetByID(ctx, entry.FantasyTeamID)
		if err != nil {
			return nil, fmt.Errorf("load fantasy team id=%d: %w", entry.FantasyTeamID, err)
		}
		if !found {
			return nil, fmt.Errorf("%w: fantasy team id=%d", ErrNotFound, entry.FantasyTeamID)
		}
		entries[idx].Points = team.Points
	}

	sort.SliceStable(entries, func(i, j int) bool {
		cmp := entries[i].Points.Cmp(entries[j].Points)
		if cmp != 0 {
			return cmp > 0
		}
		return entries[i].ID < entries[j].ID
	})

	for idx := range entries {
		if idx > 0 && entries[idx].Points.Equal(entries[idx-1].Points) {
			entries[idx].Rank = entries[idx-1].Rank
			continue
		}
		entries[idx].Rank = idx + 1
	}
	return entries, nil
}

// Leaderboard returns the contest entries in rank order.
func (s *ContestService) Leaderboard(ctx context.Context, contestID int64) ([]contest.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.Leaderboard")
	defer span.End()

	if _, found, err := s.contestRepo.GetByID(ctx, contestID); err != nil {
		return nil, fmt.Errorf("load contest id=%d: %w", contestID, err)
	} else if !found {
		return nil, fmt.Errorf("%w: contest id=%d", ErrNotFound, contestID)
	}
	return s.rankEntries(ctx, contestID)
}

// ListByMatch returns the visible contests of a match.
func (s *ContestService) ListByMatch(ctx context.Context, matchID int64) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListByMatch")
	defer span.End()

	contests, err := s.contestRepo.ListByMatch(ctx, matchID, "")
	if err != nil {
		return nil, fmt.Errorf("list contests match_id=%d: %w", matchID, err)
	}
	out := contests[:0]
	for _, c := range contests {
		if c.Status == contest.StatusDeleted {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// DeleteContest soft-deletes a contest; contests with entries stay stored.
func (s *ContestService) DeleteContest(ctx context.Context, contestID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.DeleteContest")
	defer span.End()

	c, found, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return fmt.Errorf("load contest id=%d: %w", contestID, err)
	}
	if !found {
		return fmt.Errorf("%w: contest id=%d", ErrNotFound, contestID)
	}
	if c.Status == contest.StatusCompleted {
		return fmt.Errorf("%w: completed contests cannot be deleted", ErrConflict)
	}
	return s.contestRepo.SoftDelete(ctx, contestID)
}
