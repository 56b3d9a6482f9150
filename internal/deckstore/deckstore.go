// Package deckstore persists the four-deck learning state between program
// runs, keyed by dataset. SQLite keeps the store a single local file next to
// the generated audio.
package deckstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/lessonforge/lessonforge/internal/leitner"
)

// Deck names as stored in the card_states table.
const (
	DeckMain     = "main"
	DeckActive   = "active"
	DeckDiscards = "discards"
	DeckFinished = "finished"
)

var ErrNotFound = errors.New("no saved state for dataset")

const schema = `
CREATE TABLE IF NOT EXISTS progress (
	dataset TEXT PRIMARY KEY,
	sessions_completed INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS card_states (
	dataset TEXT NOT NULL,
	card_id TEXT NOT NULL,
	deck TEXT NOT NULL,
	position INTEGER NOT NULL,
	correct INTEGER NOT NULL,
	leitner_box INTEGER NOT NULL,
	pimsleur_slot INTEGER NOT NULL,
	show_again_delay REAL NOT NULL,
	shown INTEGER NOT NULL,
	total_shown_time REAL NOT NULL,
	tries_remaining INTEGER NOT NULL,
	new_card INTEGER NOT NULL,
	next_session_show INTEGER NOT NULL,
	PRIMARY KEY (dataset, card_id)
);
`

// Open opens (creating if needed) the SQLite store at path and applies the
// schema.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("db.Exec(schema) > %w", err)
	}

	return db, nil
}

// CardState is one persisted card: which deck it sits in, its position
// within that deck, and its scheduling statistics.
type CardState struct {
	CardID   string `db:"card_id"`
	Deck     string `db:"deck"`
	Position int    `db:"position"`
	leitner.CardStats
}

// Snapshot is the full saved state of one dataset.
type Snapshot struct {
	Dataset           string
	SessionsCompleted int
	Cards             []CardState
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type cardRow struct {
	Dataset string `db:"dataset"`
	CardState
}

// Save replaces the stored state of snap.Dataset with snap.
func (r *Repository) Save(ctx context.Context, snap Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO progress (dataset, sessions_completed, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(dataset) DO UPDATE SET sessions_completed = excluded.sessions_completed, updated_at = CURRENT_TIMESTAMP`,
		snap.Dataset, snap.SessionsCompleted); err != nil {
		return fmt.Errorf("tx.ExecContext(upsert progress) > %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM card_states WHERE dataset = ?", snap.Dataset); err != nil {
		return fmt.Errorf("tx.ExecContext(delete card_states) > %w", err)
	}

	for _, state := range snap.Cards {
		row := cardRow{Dataset: snap.Dataset, CardState: state}
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO card_states (
				dataset, card_id, deck, position,
				correct, leitner_box, pimsleur_slot, show_again_delay,
				shown, total_shown_time, tries_remaining, new_card, next_session_show
			) VALUES (
				:dataset, :card_id, :deck, :position,
				:correct, :leitner_box, :pimsleur_slot, :show_again_delay,
				:shown, :total_shown_time, :tries_remaining, :new_card, :next_session_show
			)`, row); err != nil {
			return fmt.Errorf("tx.NamedExecContext(insert card_state %s) > %w", state.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit > %w", err)
	}
	return nil
}

// Load returns the stored state for a dataset, or ErrNotFound when the
// dataset has never been saved.
func (r *Repository) Load(ctx context.Context, dataset string) (*Snapshot, error) {
	var sessionsCompleted int
	err := r.db.GetContext(ctx, &sessionsCompleted,
		"SELECT sessions_completed FROM progress WHERE dataset = ?", dataset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(progress) > %w", err)
	}

	var cards []CardState
	if err := r.db.SelectContext(ctx, &cards,
		`SELECT card_id, deck, position,
			correct, leitner_box, pimsleur_slot, show_again_delay,
			shown, total_shown_time, tries_remaining, new_card, next_session_show
		 FROM card_states WHERE dataset = ? ORDER BY deck, position`, dataset); err != nil {
		return nil, fmt.Errorf("db.SelectContext(card_states) > %w", err)
	}

	return &Snapshot{
		Dataset:           dataset,
		SessionsCompleted: sessionsCompleted,
		Cards:             cards,
	}, nil
}

// Delete removes a dataset's saved state so the next run starts fresh.
func (r *Repository) Delete(ctx context.Context, dataset string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM card_states WHERE dataset = ?", dataset); err != nil {
		return fmt.Errorf("db.ExecContext(delete card_states) > %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM progress WHERE dataset = ?", dataset); err != nil {
		return fmt.Errorf("db.ExecContext(delete progress) > %w", err)
	}
	return nil
}
