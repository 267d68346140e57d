// Package prove adapts the claim engine to the Groth16 backend: it compiles
// and caches per-pool circuit parameters, turns a note plus its membership
// witness into proof bytes, and verifies proof bytes for the claim
// verifier. The proving backend sits behind small interfaces so the engine's
// control flow never touches gnark types directly.
package prove

import (
	"math/big"

	"github.com/yourorg/zecnam/pkg/claim"
)

// SpendingContext is the capability granting knowledge of a note's spend
// authority. The engine never owns or serializes key material; the only
// contract is that Open returns the secret opening of the note's
// commitment, from which a valid proof can be produced.
type SpendingContext interface {
	Pool() claim.PoolKind
	Open(note claim.NoteDescriptor) (Opening, error)
}

// Opening is the secret material that opens a note commitment. It exists
// only for the duration of one proving call.
type Opening struct {
	SpendKey *big.Int
	Rcm      *big.Int
}
