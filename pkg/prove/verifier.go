package prove

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/yourorg/zecnam/pkg/claim"
)

// Verifier checks claim proofs under per-pool verifying keys. It implements
// claim.ProofSystem. Register keys once at startup; reads are lock-free.
type Verifier struct {
	vks map[claim.PoolKind]groth16.VerifyingKey
}

func NewVerifier() *Verifier {
	return &Verifier{vks: make(map[claim.PoolKind]groth16.VerifyingKey)}
}

// Register installs the verifying key for a pool.
func (v *Verifier) Register(pool claim.PoolKind, vk groth16.VerifyingKey) {
	v.vks[pool] = vk
}

// VerifyProof checks proof bytes against the public inputs under the pool's
// verification parameters. Any failure, including a missing key or
// undecodable proof bytes, is an invalid-proof reject.
func (v *Verifier) VerifyProof(pool claim.PoolKind, proofBytes []byte, pub claim.PublicInputs) error {
	vk, ok := v.vks[pool]
	if !ok {
		return fmt.Errorf("no verifying key for %s: %w", pool, claim.ErrInvalidProof)
	}

	proof := groth16.NewProof(pool.Curve())
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("decode proof: %w (%v)", claim.ErrInvalidProof, err)
	}

	pubWitness, err := frontend.NewWitness(
		publicAssignment(pub),
		pool.Curve().ScalarField(),
		frontend.PublicOnly(),
	)
	if err != nil {
		return fmt.Errorf("public witness: %w (%v)", claim.ErrInvalidProof, err)
	}

	if err := groth16.Verify(proof, vk, pubWitness); err != nil {
		return fmt.Errorf("groth16 verify: %w (%v)", claim.ErrInvalidProof, err)
	}
	return nil
}
