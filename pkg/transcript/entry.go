// Package transcript records conversations as a content-addressed chain.
// Every turn hashes over its own record plus its parent's hash, so replaying
// the same history dedupes into existing entries and a different reply
// branches from the shared prefix. No session identifiers are needed: the
// content is the identity.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Record is the hashed payload of one conversation turn.
type Record struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
	Model   string `json:"model,omitempty"`
}

// Entry is one turn in a recorded conversation. Hash is the hex-encoded
// SHA-256 of the canonical JSON encoding of the record and the parent hash.
type Entry struct {
	Hash string `json:"hash"`

	// ParentHash links to the preceding turn; nil for conversation roots.
	ParentHash *string `json:"parent_hash"`

	Record Record `json:"record"`
}

// NewEntry links a record under parent (nil for a conversation root) and
// computes its hash.
func NewEntry(record Record, parent *Entry) *Entry {
	e := &Entry{Record: record}
	if parent != nil {
		e.ParentHash = &parent.Hash
	}
	e.Hash = e.computeHash()
	return e
}

type hashInput struct {
	Parent string `json:"parent,omitempty"`
	Record Record `json:"record"`
}

func (e *Entry) computeHash() string {
	in := hashInput{Record: e.Record}
	if e.ParentHash != nil {
		in.Parent = *e.ParentHash
	}

	// Canonical JSON encoding for deterministic hashing
	data, err := json.Marshal(in)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
