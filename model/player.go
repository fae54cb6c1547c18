package model

import "time"

// PlayerAccount is one user's standing in the token economy. Rows are
// created lazily on first use and never deleted. Tokens never go
// negative; every mutation is preconditioned on sufficient balance.
type PlayerAccount struct {
	UserID            string     `db:"user_id"`
	Tokens            int64      `db:"tokens"`
	LuckPoints        int64      `db:"luck_points"`
	LastDailyClaim    *time.Time `db:"last_daily_claim"`
	LastPrayTime      *time.Time `db:"last_pray_time"`
	PrayCooldownUntil *time.Time `db:"pray_cooldown_until"`
	TotalWins         int64      `db:"total_wins"`
	TotalLosses       int64      `db:"total_losses"`
}
