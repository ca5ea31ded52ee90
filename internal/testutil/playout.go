package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/store"
)

// DefaultPlayoutID is used by FixedPlayoutGenerator when no id is given.
const DefaultPlayoutID = "test-playout-default"

var _ driver.PlayoutIDGenerator = (*FixedPlayoutGenerator)(nil)

// FixedPlayoutGenerator hands out the same playout id every time.
//
// Scenarios set it from YAML so golden traces carry a stable id:
//
//	playout_id: "test-playout-00000000-0000-0000-0000-000000000001"
//
// Unlike driver.FixedGenerator it never runs out.
type FixedPlayoutGenerator struct {
	id string
}

// NewFixedPlayoutGenerator returns a generator for id, or DefaultPlayoutID
// when id is empty.
func NewFixedPlayoutGenerator(id string) *FixedPlayoutGenerator {
	if id == "" {
		id = DefaultPlayoutID
	}
	return &FixedPlayoutGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedPlayoutGenerator) Generate() string {
	return g.id
}

// OpenStore opens a journal store in a temp directory and closes it when
// the test ends. It returns the store and its path.
func OpenStore(t testing.TB) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open(%s): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}
