package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/branchsim/internal/journal"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestPlayout(id string) journal.Playout {
	return journal.Playout{
		ID:       id,
		Seed:     7,
		Source:   journal.SourceRandom,
		Red:      "red",
		Blue:     "blue",
		MaxTurns: 100,
	}
}

// createTestEntry builds a stamped decision entry.
func createTestEntry(t *testing.T, playoutID string, seq int64, label string) journal.Entry {
	t.Helper()
	e, err := journal.Stamp(journal.Entry{
		PlayoutID: playoutID,
		Seq:       seq,
		Kind:      journal.KindDecision,
		Name:      "Choose your action",
		Player:    "Player1",
		Index:     0,
		Label:     label,
		Options:   3,
	})
	if err != nil {
		t.Fatalf("Stamp() failed: %v", err)
	}
	return e
}
