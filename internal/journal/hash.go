package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEntry prefixes entry hashes. The version suffix allows the
// algorithm to change without colliding with old ids.
const DomainEntry = "branchsim/entry/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Canonical returns the canonical JSON of the entry's identity fields.
// The ID field itself is excluded.
func (e Entry) Canonical() ([]byte, error) {
	obj := map[string]any{
		"playout_id": e.PlayoutID,
		"seq":        e.Seq,
		"kind":       e.Kind,
		"name":       e.Name,
		"player":     e.Player,
		"index":      e.Index,
		"label":      e.Label,
		"options":    e.Options,
		"weight":     e.Weight,
	}
	return MarshalCanonical(obj)
}

// EntryID computes the content-addressed id of an entry. Two entries with
// the same playout, position and resolution always share an id.
func EntryID(e Entry) (string, error) {
	canonical, err := e.Canonical()
	if err != nil {
		return "", fmt.Errorf("EntryID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEntry, canonical), nil
}

// MustEntryID is like EntryID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEntryID(e Entry) string {
	id, err := EntryID(e)
	if err != nil {
		panic(err)
	}
	return id
}

// Stamp fills in e.ID.
func Stamp(e Entry) (Entry, error) {
	id, err := EntryID(e)
	if err != nil {
		return e, err
	}
	e.ID = id
	return e, nil
}
