package claim

import (
	"bytes"
	"time"
)

const (
	// ClaimVersion is the wire version stamped on newly assembled claims.
	ClaimVersion uint8 = 1

	// HashLen is the width of roots, commitments and nullifiers.
	HashLen = 32

	// RecipientLen is the raw width of a MASP payment address: an 11-byte
	// diversifier followed by a 32-byte transmission key.
	RecipientLen = 43
)

// Nullifier marks a note as claimed once published. Derived, never random.
type Nullifier [HashLen]byte

// NoteDescriptor is a shielded note as read from wallet storage plus its
// leaf position in the pool's commitment tree. Immutable during a claim
// build.
type NoteDescriptor struct {
	Pool       PoolKind
	Value      uint64
	Commitment [HashLen]byte
	Position   uint64
}

// PublicInputs are the only values a verifier trusts from outside the
// proof; the proof binds the private witness to them.
type PublicInputs struct {
	Root      [HashLen]byte
	Value     uint64
	Pool      PoolKind
	Recipient [RecipientLen]byte
	Nullifier Nullifier
}

// ClaimTransaction is the self-contained artifact a remote verifier checks
// offline. Immutable once assembled. CreatedAt is local metadata and is not
// part of the wire encoding.
type ClaimTransaction struct {
	Version      uint8
	PublicInputs PublicInputs
	Proof        []byte
	CreatedAt    time.Time
}

// Equal compares the wire-relevant fields of two claims.
func (tx *ClaimTransaction) Equal(other *ClaimTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}
	return tx.Version == other.Version &&
		tx.PublicInputs == other.PublicInputs &&
		bytes.Equal(tx.Proof, other.Proof)
}
