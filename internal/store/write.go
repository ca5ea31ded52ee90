package store

import (
	"context"
	"fmt"

	"github.com/roach88/branchsim/internal/journal"
)

// WritePlayout inserts a playout header. Uses ON CONFLICT(id) DO NOTHING,
// so writing the same playout twice is a no-op.
func (s *Store) WritePlayout(ctx context.Context, p journal.Playout) error {
	status := p.Status
	if status == "" {
		status = journal.StatusRunning
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playouts
		(id, seed, source, roster, red, blue, max_turns, status, winner, turns, steps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		p.ID,
		p.Seed,
		p.Source,
		p.Roster,
		p.Red,
		p.Blue,
		p.MaxTurns,
		status,
		p.Winner,
		p.Turns,
		p.Steps,
	)
	if err != nil {
		return fmt.Errorf("write playout: %w", err)
	}
	return nil
}

// FinishPlayout stores the outcome of a playout.
// Returns ErrNotFound when no playout with p.ID was written.
func (s *Store) FinishPlayout(ctx context.Context, p journal.Playout) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE playouts
		SET status = ?, winner = ?, turns = ?, steps = ?
		WHERE id = ?
	`,
		p.Status,
		p.Winner,
		p.Turns,
		p.Steps,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("finish playout: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish playout: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish playout %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// WriteEntry inserts a journal entry.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (unknown playout, bad kind) still return errors.
//
// The playout referenced by e.PlayoutID must exist (foreign key constraint).
func (s *Store) WriteEntry(ctx context.Context, e journal.Entry) error {
	if e.ID == "" {
		return fmt.Errorf("write entry: seq %d has no id", e.Seq)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries
		(id, playout_id, seq, kind, name, player, idx, label, options, weight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.PlayoutID,
		e.Seq,
		e.Kind,
		e.Name,
		e.Player,
		e.Index,
		e.Label,
		e.Options,
		e.Weight,
	)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// Record implements driver.Recorder.
func (s *Store) Record(ctx context.Context, e journal.Entry) error {
	return s.WriteEntry(ctx, e)
}
