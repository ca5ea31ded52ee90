package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/branchsim/internal/journal"
)

// ErrNotFound is returned when a playout does not exist.
var ErrNotFound = errors.New("playout not found")

// ReadPlayout returns the playout with the given id.
func (s *Store) ReadPlayout(ctx context.Context, id string) (journal.Playout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, source, roster, red, blue, max_turns, status, winner, turns, steps
		FROM playouts
		WHERE id = ?
	`, id)

	p, err := scanPlayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Playout{}, fmt.Errorf("read playout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return journal.Playout{}, fmt.Errorf("read playout %s: %w", id, err)
	}
	return p, nil
}

// ListPlayouts returns every playout, optionally filtered by status
// (empty matches all), ordered by id.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListPlayouts(ctx context.Context, status string) ([]journal.Playout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, source, roster, red, blue, max_turns, status, winner, turns, steps
		FROM playouts
		WHERE ? = '' OR status = ?
		ORDER BY id COLLATE BINARY ASC
	`, status, status)
	if err != nil {
		return nil, fmt.Errorf("query playouts: %w", err)
	}
	defer rows.Close()

	playouts := []journal.Playout{}
	for rows.Next() {
		p, err := scanPlayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan playout: %w", err)
		}
		playouts = append(playouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playouts: %w", err)
	}
	return playouts, nil
}

// ReadEntries returns the journal of a playout in resolution order:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the playout has no entries.
func (s *Store) ReadEntries(ctx context.Context, playoutID string) ([]journal.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, playout_id, seq, kind, name, player, idx, label, options, weight
		FROM entries
		WHERE playout_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, playoutID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []journal.Entry{}
	for rows.Next() {
		var e journal.Entry
		if err := rows.Scan(
			&e.ID,
			&e.PlayoutID,
			&e.Seq,
			&e.Kind,
			&e.Name,
			&e.Player,
			&e.Index,
			&e.Label,
			&e.Options,
			&e.Weight,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayout(r rowScanner) (journal.Playout, error) {
	var p journal.Playout
	err := r.Scan(
		&p.ID,
		&p.Seed,
		&p.Source,
		&p.Roster,
		&p.Red,
		&p.Blue,
		&p.MaxTurns,
		&p.Status,
		&p.Winner,
		&p.Turns,
		&p.Steps,
	)
	return p, err
}
