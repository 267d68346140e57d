package claim

import (
	"fmt"
	"time"
)

// Assemble packages proof bytes and public inputs into an immutable
// ClaimTransaction at the current protocol version. It checks structural
// completeness only; semantic validation is the verifier's job.
func Assemble(pub PublicInputs, proof []byte) (*ClaimTransaction, error) {
	if !pub.Pool.Valid() {
		return nil, fmt.Errorf("pool tag %d: %w", uint8(pub.Pool), ErrIncompleteInputs)
	}
	if len(proof) == 0 {
		return nil, fmt.Errorf("missing proof: %w", ErrIncompleteInputs)
	}
	if len(proof) != pub.Pool.ProofSize() {
		return nil, fmt.Errorf("proof is %d bytes, want %d for %s: %w",
			len(proof), pub.Pool.ProofSize(), pub.Pool, ErrIncompleteInputs)
	}
	if pub.Nullifier == (Nullifier{}) {
		return nil, fmt.Errorf("missing nullifier: %w", ErrIncompleteInputs)
	}

	cp := make([]byte, len(proof))
	copy(cp, proof)
	return &ClaimTransaction{
		Version:      ClaimVersion,
		PublicInputs: pub,
		Proof:        cp,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
