// Package economy implements the token-economy ledger: daily rewards,
// coin flips, transfers, pray luck and the leaderboard.
package economy

import (
	"fmt"
	"math/rand"
	"modbot/model"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// Sides of the coin.
const (
	SideHeads = "heads"
	SideTails = "tails"
)

// Rand is the randomness the ledger consumes. *math/rand.Rand satisfies
// it; tests substitute a deterministic stub.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Ledger owns all player-account mutations. Mutations for the same user
// are serialized behind a per-user lock so two near-simultaneous
// commands cannot both read the pre-mutation balance.
type Ledger struct {
	store *Store
	cfg   model.EconomyConfig
	rng   Rand
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger creates the ledger on the shared database handle.
func NewLedger(db *sqlx.DB, cfg model.EconomyConfig) (*Ledger, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store: store,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the mutex guarding one user's mutations.
func (l *Ledger) userLock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

// lockUsers acquires the per-user locks in sorted order so two
// concurrent transfers between the same pair cannot deadlock.
func (l *Ledger) lockUsers(ids ...string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		m := l.userLock(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (l *Ledger) location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", l.cfg.UTCOffsetHours), l.cfg.UTCOffsetHours*3600)
}

// DailyResult reports a successful daily claim.
type DailyResult struct {
	Reward     int64
	NewBalance int64
}

// ClaimDaily grants the once-per-day reward. Eligibility resets at
// local midnight in the configured fixed offset, not on a rolling
// 24-hour window from the last claim.
func (l *Ledger) ClaimDaily(userID string) (DailyResult, error) {
	unlock := l.lockUsers(userID)
	defer unlock()

	tx, err := l.store.begin()
	if err != nil {
		return DailyResult{}, err
	}
	defer tx.Rollback()

	if err := l.store.ensure(tx, userID); err != nil {
		return DailyResult{}, err
	}
	acc, err := l.store.get(tx, userID)
	if err != nil {
		return DailyResult{}, err
	}

	loc := l.location()
	now := l.now()
	if acc.LastDailyClaim != nil && sameLocalDay(now, *acc.LastDailyClaim, loc) {
		y, m, d := now.In(loc).Date()
		next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		return DailyResult{}, &AlreadyClaimedError{NextEligible: next}
	}

	reward := l.cfg.DailyMin
	if span := l.cfg.DailyMax - l.cfg.DailyMin; span > 0 {
		reward += int64(l.rng.Intn(int(span + 1)))
	}

	newBalance := acc.Tokens + reward
	_, err = tx.Exec(`UPDATE players SET tokens = ?, last_daily_claim = ? WHERE user_id = ?`,
		newBalance, now, userID)
	if err != nil {
		return DailyResult{}, fmt.Errorf("failed to apply daily reward for %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return DailyResult{}, err
	}
	return DailyResult{Reward: reward, NewBalance: newBalance}, nil
}

func sameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// FlipResult reports one coin flip.
type FlipResult struct {
	Won        bool
	ResultSide string
	Bet        int64
	NewBalance int64
	NewLuck    int64
	// LuckBonus is the advertised win-chance bonus from luck points. It
	// only changes the draw when LuckAffectsOdds is set.
	LuckBonus float64
}

// CoinFlip wagers bet tokens on a two-sided draw. The bet must be at
// least 1 and covered by the current balance; nothing is mutated on a
// rejected flip. Each flip consumes one luck point (floored at zero)
// win or lose.
func (l *Ledger) CoinFlip(userID, chosenSide string, bet int64) (FlipResult, error) {
	if bet < 1 {
		return FlipResult{}, ErrInvalidAmount
	}
	if chosenSide != SideHeads && chosenSide != SideTails {
		return FlipResult{}, fmt.Errorf("unknown side %q", chosenSide)
	}

	unlock := l.lockUsers(userID)
	defer unlock()

	tx, err := l.store.begin()
	if err != nil {
		return FlipResult{}, err
	}
	defer tx.Rollback()

	if err := l.store.ensure(tx, userID); err != nil {
		return FlipResult{}, err
	}
	acc, err := l.store.get(tx, userID)
	if err != nil {
		return FlipResult{}, err
	}
	if bet > acc.Tokens {
		return FlipResult{}, &InsufficientFundsError{Balance: acc.Tokens}
	}

	bonus := float64(acc.LuckPoints) * l.cfg.LuckBonusPerPoint
	if bonus > l.cfg.LuckBonusCap {
		bonus = l.cfg.LuckBonusCap
	}
	winChance := 0.5
	if l.cfg.LuckAffectsOdds {
		winChance += bonus
	}

	won := l.rng.Float64() < winChance
	resultSide := chosenSide
	if !won {
		resultSide = otherSide(chosenSide)
	}

	newBalance := acc.Tokens - bet
	wins, losses := acc.TotalWins, acc.TotalLosses+1
	if won {
		newBalance = acc.Tokens + bet
		wins, losses = acc.TotalWins+1, acc.TotalLosses
	}
	newLuck := acc.LuckPoints - 1
	if newLuck < 0 {
		newLuck = 0
	}

	_, err = tx.Exec(`UPDATE players SET tokens = ?, luck_points = ?, total_wins = ?, total_losses = ? WHERE user_id = ?`,
		newBalance, newLuck, wins, losses, userID)
	if err != nil {
		return FlipResult{}, fmt.Errorf("failed to settle coin flip for %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return FlipResult{}, err
	}
	return FlipResult{
		Won:        won,
		ResultSide: resultSide,
		Bet:        bet,
		NewBalance: newBalance,
		NewLuck:    newLuck,
		LuckBonus:  bonus,
	}, nil
}

func otherSide(side string) string {
	if side == SideHeads {
		return SideTails
	}
	return SideHeads
}

// TransferResult reports a completed transfer.
type TransferResult struct {
	NewSenderBalance int64
}

// Transfer moves tokens between two players as a single transaction:
// the debit and credit either both land or neither does.
func (l *Ledger) Transfer(senderID, receiverID string, receiverIsBot bool, amount int64) (TransferResult, error) {
	if senderID == receiverID {
		return TransferResult{}, ErrSelfTransfer
	}
	if receiverIsBot {
		return TransferResult{}, ErrBotTarget
	}
	if amount < 1 {
		return TransferResult{}, ErrInvalidAmount
	}

	unlock := l.lockUsers(senderID, receiverID)
	defer unlock()

	tx, err := l.store.begin()
	if err != nil {
		return TransferResult{}, err
	}
	defer tx.Rollback()

	if err := l.store.ensure(tx, senderID); err != nil {
		return TransferResult{}, err
	}
	if err := l.store.ensure(tx, receiverID); err != nil {
		return TransferResult{}, err
	}

	// The debit is conditional on sufficient balance inside the
	// transaction, never a read-then-write.
	res, err := tx.Exec(`UPDATE players SET tokens = tokens - ? WHERE user_id = ? AND tokens >= ?`,
		amount, senderID, amount)
	if err != nil {
		return TransferResult{}, fmt.Errorf("failed to debit %s: %w", senderID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return TransferResult{}, err
	}
	if affected == 0 {
		acc, gerr := l.store.get(tx, senderID)
		if gerr != nil {
			return TransferResult{}, gerr
		}
		return TransferResult{}, &InsufficientFundsError{Balance: acc.Tokens}
	}

	if _, err := tx.Exec(`UPDATE players SET tokens = tokens + ? WHERE user_id = ?`, amount, receiverID); err != nil {
		return TransferResult{}, fmt.Errorf("failed to credit %s: %w", receiverID, err)
	}

	acc, err := l.store.get(tx, senderID)
	if err != nil {
		return TransferResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return TransferResult{}, err
	}
	return TransferResult{NewSenderBalance: acc.Tokens}, nil
}

// PrayResult reports a successful pray.
type PrayResult struct {
	LuckGained    int64
	NewLuckTotal  int64
	CooldownUntil time.Time
}

// Pray grants 1-10 luck points. The cooldown is rolled per call to one
// or two hours from the successful pray, stored as an absolute instant.
func (l *Ledger) Pray(userID string) (PrayResult, error) {
	unlock := l.lockUsers(userID)
	defer unlock()

	tx, err := l.store.begin()
	if err != nil {
		return PrayResult{}, err
	}
	defer tx.Rollback()

	if err := l.store.ensure(tx, userID); err != nil {
		return PrayResult{}, err
	}
	acc, err := l.store.get(tx, userID)
	if err != nil {
		return PrayResult{}, err
	}

	now := l.now()
	if acc.PrayCooldownUntil != nil && now.Before(*acc.PrayCooldownUntil) {
		return PrayResult{}, &CooldownError{NextEligible: *acc.PrayCooldownUntil}
	}

	gained := int64(1 + l.rng.Intn(10))
	cooldown := time.Duration(1+l.rng.Intn(2)) * time.Hour
	until := now.Add(cooldown)
	newLuck := acc.LuckPoints + gained

	_, err = tx.Exec(`UPDATE players SET luck_points = ?, last_pray_time = ?, pray_cooldown_until = ? WHERE user_id = ?`,
		newLuck, now, until, userID)
	if err != nil {
		return PrayResult{}, fmt.Errorf("failed to apply pray for %s: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return PrayResult{}, err
	}
	return PrayResult{LuckGained: gained, NewLuckTotal: newLuck, CooldownUntil: until}, nil
}

// Leaderboard returns the top accounts by balance, default 10.
func (l *Ledger) Leaderboard(limit int) ([]model.PlayerAccount, error) {
	if limit <= 0 {
		limit = 10
	}
	return l.store.Top(limit)
}

// Account exposes a read-only view of one player for display.
func (l *Ledger) Account(userID string) (model.PlayerAccount, error) {
	return l.store.Account(userID)
}
