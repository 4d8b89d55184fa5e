// Package storage persists the engine's decisions so runs can be audited
// after the fact. Only decisions are journaled; prices and books are not.
package storage

import (
	"database/sql"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dexarb/searcher/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	decided_at    INTEGER NOT NULL,
	token_id      INTEGER NOT NULL,
	decision_type TEXT    NOT NULL,
	bid_order_id  INTEGER,
	ask_order_id  INTEGER,
	base_amount   TEXT,
	quote_amount  TEXT
);
CREATE INDEX IF NOT EXISTS idx_decisions_token ON decisions(token_id, decided_at);
`

type Journal struct {
	db *sql.DB
}

// Entry is one journaled decision, read back for inspection.
type Entry struct {
	DecidedAt   time.Time
	TokenID     uint64
	Type        string
	BidOrderID  uint64
	AskOrderID  uint64
	BaseAmount  *big.Int
	QuoteAmount *big.Int
}

func NewJournal(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal db: %w", err)
	}

	// WAL so the per-token cycles don't serialize on writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one decision. Amounts go in as decimal strings so they
// survive any magnitude.
func (j *Journal) Record(tokenID uint64, d engine.Decision) error {
	base, quote := "", ""
	if d.BaseAmount != nil {
		base = d.BaseAmount.String()
	}
	if d.QuoteAmount != nil {
		quote = d.QuoteAmount.String()
	}

	_, err := j.db.Exec(
		"INSERT INTO decisions (decided_at, token_id, decision_type, bid_order_id, ask_order_id, base_amount, quote_amount) VALUES (?, ?, ?, ?, ?, ?, ?)",
		time.Now().Unix(), tokenID, d.Type.String(), d.BidOrderID, d.AskOrderID, base, quote,
	)
	return err
}

// Recent returns the newest entries for a token, newest first.
func (j *Journal) Recent(tokenID uint64, limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		"SELECT decided_at, token_id, decision_type, bid_order_id, ask_order_id, base_amount, quote_amount FROM decisions WHERE token_id = ? ORDER BY decided_at DESC, id DESC LIMIT ?",
		tokenID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		var base, quote string
		if err := rows.Scan(&at, &e.TokenID, &e.Type, &e.BidOrderID, &e.AskOrderID, &base, &quote); err != nil {
			return nil, err
		}
		e.DecidedAt = time.Unix(at, 0)
		if base != "" {
			e.BaseAmount, _ = new(big.Int).SetString(base, 10)
		}
		if quote != "" {
			e.QuoteAmount, _ = new(big.Int).SetString(quote, 10)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
