package economy

import (
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modbot/model"
)

// stubRand makes draws deterministic: Float64 below 0.5 wins a fair
// flip, at or above loses.
type stubRand struct {
	intn  int
	float float64
}

func (r *stubRand) Intn(n int) int {
	if r.intn >= n {
		return n - 1
	}
	return r.intn
}

func (r *stubRand) Float64() float64 { return r.float }

func testConfig() model.EconomyConfig {
	return model.EconomyConfig{
		DailyMin:          1000,
		DailyMax:          5000,
		UTCOffsetHours:    8,
		LuckAffectsOdds:   false,
		LuckBonusPerPoint: 0.005,
		LuckBonusCap:      0.25,
	}
}

func newTestLedger(t *testing.T) (*Ledger, *stubRand) {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ledger, err := NewLedger(db, testConfig())
	require.NoError(t, err)

	rng := &stubRand{}
	ledger.rng = rng
	return ledger, rng
}

func setBalance(t *testing.T, l *Ledger, userID string, tokens, luck int64) {
	t.Helper()
	tx, err := l.store.begin()
	require.NoError(t, err)
	require.NoError(t, l.store.ensure(tx, userID))
	_, err = tx.Exec(`UPDATE players SET tokens = ?, luck_points = ? WHERE user_id = ?`, tokens, luck, userID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func TestClaimDaily_OncePerLocalDay(t *testing.T) {
	ledger, rng := newTestLedger(t)
	rng.intn = 500 // reward 1500

	// 23:30 local time in UTC+8 is 15:30 UTC.
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	res, err := ledger.ClaimDaily("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Reward)
	assert.Equal(t, int64(1500), res.NewBalance)

	// Second claim in the same local day fails with the next-midnight
	// eligibility time.
	_, err = ledger.ClaimDaily("u1")
	var claimed *AlreadyClaimedError
	require.ErrorAs(t, err, &claimed)
	assert.True(t, claimed.NextEligible.After(now))

	// 40 minutes later the local day has rolled over (00:10 UTC+8).
	now = now.Add(40 * time.Minute)
	res, err = ledger.ClaimDaily("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), res.NewBalance)
}

func TestClaimDaily_RewardBounds(t *testing.T) {
	ledger, rng := newTestLedger(t)
	ledger.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	rng.intn = 0
	res, err := ledger.ClaimDaily("low")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Reward)

	rng.intn = 4000
	res, err = ledger.ClaimDaily("high")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), res.Reward)
}

func TestCoinFlip_ExactBalanceBounds(t *testing.T) {
	ledger, rng := newTestLedger(t)
	setBalance(t, ledger, "u1", 100, 0)

	// Forced loss: balance drops to exactly zero, never negative.
	rng.float = 0.9
	res, err := ledger.CoinFlip("u1", SideHeads, 100)
	require.NoError(t, err)
	assert.False(t, res.Won)
	assert.Equal(t, SideTails, res.ResultSide)
	assert.Equal(t, int64(0), res.NewBalance)

	// Forced win doubles the stake.
	setBalance(t, ledger, "u2", 100, 0)
	rng.float = 0.1
	res, err = ledger.CoinFlip("u2", SideHeads, 100)
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.Equal(t, SideHeads, res.ResultSide)
	assert.Equal(t, int64(200), res.NewBalance)
}

func TestCoinFlip_Preconditions(t *testing.T) {
	ledger, _ := newTestLedger(t)
	setBalance(t, ledger, "u1", 50, 0)

	_, err := ledger.CoinFlip("u1", SideHeads, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.CoinFlip("u1", SideHeads, 51)
	var funds *InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, int64(50), funds.Balance)

	// Rejections leave the balance untouched.
	acc, err := ledger.Account("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), acc.Tokens)
}

func TestCoinFlip_ConsumesOneLuckPoint(t *testing.T) {
	ledger, rng := newTestLedger(t)
	setBalance(t, ledger, "u1", 1000, 3)

	rng.float = 0.9
	res, err := ledger.CoinFlip("u1", SideTails, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NewLuck)

	rng.float = 0.1
	res, err = ledger.CoinFlip("u1", SideTails, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.NewLuck, "luck is consumed on wins too")

	// Floor at zero.
	setBalance(t, ledger, "u2", 1000, 0)
	res, err = ledger.CoinFlip("u2", SideTails, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewLuck)
}

func TestCoinFlip_LuckBonusDisplayOnly(t *testing.T) {
	ledger, rng := newTestLedger(t)
	setBalance(t, ledger, "u1", 1000, 20)

	// 20 points * 0.005 = 0.10 bonus. With the flag off, a draw of
	// 0.55 still loses even though 0.55 < 0.60.
	rng.float = 0.55
	res, err := ledger.CoinFlip("u1", SideHeads, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, res.LuckBonus, 1e-9)
	assert.False(t, res.Won)
}

func TestCoinFlip_LuckBonusApplied(t *testing.T) {
	ledger, rng := newTestLedger(t)
	ledger.cfg.LuckAffectsOdds = true
	setBalance(t, ledger, "u1", 1000, 20)

	// Same 0.55 draw wins once the bonus feeds the threshold.
	rng.float = 0.55
	res, err := ledger.CoinFlip("u1", SideHeads, 10)
	require.NoError(t, err)
	assert.True(t, res.Won)
}

func TestTransfer_Exact(t *testing.T) {
	ledger, _ := newTestLedger(t)
	setBalance(t, ledger, "alice", 100, 0)

	res, err := ledger.Transfer("alice", "bob", false, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewSenderBalance)

	bob, err := ledger.Account("bob")
	require.NoError(t, err)
	assert.Equal(t, int64(100), bob.Tokens)
}

func TestTransfer_Rejections(t *testing.T) {
	ledger, _ := newTestLedger(t)
	setBalance(t, ledger, "alice", 100, 0)

	_, err := ledger.Transfer("alice", "alice", false, 10)
	assert.ErrorIs(t, err, ErrSelfTransfer)

	_, err = ledger.Transfer("alice", "botto", true, 10)
	assert.ErrorIs(t, err, ErrBotTarget)

	_, err = ledger.Transfer("alice", "bob", false, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.Transfer("alice", "bob", false, 101)
	var funds *InsufficientFundsError
	require.ErrorAs(t, err, &funds)

	// No mutation on any rejection.
	alice, err := ledger.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), alice.Tokens)
	bob, err := ledger.Account("bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bob.Tokens)
}

func TestTransfer_ConcurrentSameUser(t *testing.T) {
	ledger, _ := newTestLedger(t)
	setBalance(t, ledger, "alice", 100, 0)

	// Ten concurrent 10-token transfers drain the balance exactly;
	// the per-user lock prevents any double-spend.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.Transfer("alice", "bob", false, 10)
		}()
	}
	wg.Wait()

	alice, err := ledger.Account("alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), alice.Tokens)
	bob, err := ledger.Account("bob")
	require.NoError(t, err)
	assert.Equal(t, int64(100), bob.Tokens)
}

func TestPray_CooldownStrict(t *testing.T) {
	ledger, rng := newTestLedger(t)
	rng.intn = 0 // 1 luck point, 1h cooldown

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }

	res, err := ledger.Pray("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LuckGained)
	assert.Equal(t, int64(1), res.NewLuckTotal)
	assert.Equal(t, now.Add(time.Hour), res.CooldownUntil)

	// Before the cooldown elapses the second call fails, and the
	// eligibility time is strictly after now.
	now = now.Add(30 * time.Minute)
	_, err = ledger.Pray("u1")
	var cd *CooldownError
	require.ErrorAs(t, err, &cd)
	assert.True(t, cd.NextEligible.After(now))

	now = now.Add(31 * time.Minute)
	res, err = ledger.Pray("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NewLuckTotal)
}

func TestPray_GainBounds(t *testing.T) {
	ledger, rng := newTestLedger(t)
	ledger.now = time.Now

	rng.intn = 0
	res, err := ledger.Pray("low")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.LuckGained)

	rng.intn = 9
	res, err = ledger.Pray("high")
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.LuckGained)
}

func TestLeaderboard_Order(t *testing.T) {
	ledger, _ := newTestLedger(t)
	setBalance(t, ledger, "c", 300, 0)
	setBalance(t, ledger, "a", 100, 0)
	setBalance(t, ledger, "b", 200, 0)
	setBalance(t, ledger, "d", 200, 0)

	top, err := ledger.Leaderboard(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "c", top[0].UserID)
	assert.Equal(t, "b", top[1].UserID)
	assert.Equal(t, "d", top[2].UserID)
}
