package economy

import (
	"fmt"
	"modbot/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the sqlite-backed player table. All balance mutations go
// through transactions opened by the Ledger so a partial write can
// never split a transfer.
type Store struct {
	db *sqlx.DB
}

// NewStore ensures the players table exists.
func NewStore(db *sqlx.DB) (*Store, error) {
	schema := `
    CREATE TABLE IF NOT EXISTS players (
        user_id TEXT NOT NULL PRIMARY KEY,
        tokens INTEGER NOT NULL DEFAULT 0,
        luck_points INTEGER NOT NULL DEFAULT 0,
        last_daily_claim TIMESTAMP,
        last_pray_time TIMESTAMP,
        pray_cooldown_until TIMESTAMP,
        total_wins INTEGER NOT NULL DEFAULT 0,
        total_losses INTEGER NOT NULL DEFAULT 0
    );`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create players table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) begin() (*sqlx.Tx, error) {
	return s.db.Beginx()
}

// ensure creates the row for userID if it does not exist yet. Accounts
// are created lazily on first economy command and never deleted.
func (s *Store) ensure(tx *sqlx.Tx, userID string) error {
	_, err := tx.Exec(`INSERT INTO players (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("failed to ensure player %s: %w", userID, err)
	}
	return nil
}

func (s *Store) get(tx *sqlx.Tx, userID string) (model.PlayerAccount, error) {
	var acc model.PlayerAccount
	err := tx.Get(&acc, `SELECT * FROM players WHERE user_id = ?`, userID)
	if err != nil {
		return acc, fmt.Errorf("failed to load player %s: %w", userID, err)
	}
	return acc, nil
}

// Account loads (creating if necessary) a single player row.
func (s *Store) Account(userID string) (model.PlayerAccount, error) {
	tx, err := s.begin()
	if err != nil {
		return model.PlayerAccount{}, err
	}
	defer tx.Rollback()

	if err := s.ensure(tx, userID); err != nil {
		return model.PlayerAccount{}, err
	}
	acc, err := s.get(tx, userID)
	if err != nil {
		return model.PlayerAccount{}, err
	}
	return acc, tx.Commit()
}

// Top returns the richest accounts, tokens descending. Ties keep a
// stable user-id order.
func (s *Store) Top(limit int) ([]model.PlayerAccount, error) {
	var accounts []model.PlayerAccount
	err := s.db.Select(&accounts,
		`SELECT * FROM players ORDER BY tokens DESC, user_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return accounts, nil
}
