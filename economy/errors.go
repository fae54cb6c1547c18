package economy

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSelfTransfer rejects transfers where sender and receiver match.
	ErrSelfTransfer = errors.New("cannot transfer tokens to yourself")
	// ErrBotTarget rejects transfers to bot accounts, which never play.
	ErrBotTarget = errors.New("cannot transfer tokens to a bot")
	// ErrInvalidAmount rejects zero or negative bets and transfers.
	ErrInvalidAmount = errors.New("amount must be at least 1")
)

// AlreadyClaimedError means the daily reward was already taken in the
// current local day.
type AlreadyClaimedError struct {
	NextEligible time.Time
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("daily reward already claimed, next eligible at %s", e.NextEligible.Format(time.RFC3339))
}

// InsufficientFundsError means the balance cannot cover the requested
// bet or transfer. No mutation has happened when it is returned.
type InsufficientFundsError struct {
	Balance int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance is %d", e.Balance)
}

// CooldownError means the pray cooldown has not elapsed yet.
type CooldownError struct {
	NextEligible time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown until %s", e.NextEligible.Format(time.RFC3339))
}
