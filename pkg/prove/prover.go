package prove

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/yourorg/zecnam/circuits"
	"github.com/yourorg/zecnam/internal/fieldenc"
	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/tree"
)

// Prover generates ownership proofs for one (pool, depth) parameter set.
// Stateless per call; safe for concurrent use.
type Prover struct {
	params *Params
}

func NewProver(params *Params) *Prover { return &Prover{params: params} }

// Prove produces the opaque proof bytes attesting that the note opened by
// sc sits under pub.Root and that pub's value and nullifier are the ones
// derived from it. All consistency failures are reported before any
// circuit work starts; anything the underlying proof system reports after
// that is fatal to this attempt and never retried.
func (p *Prover) Prove(note claim.NoteDescriptor, sc SpendingContext, w *tree.Witness, pub claim.PublicInputs) ([]byte, error) {
	pool := p.params.Pool
	if note.Pool != pool || sc.Pool() != pool || pub.Pool != pool {
		return nil, fmt.Errorf("prove: note %s, context %s, inputs %s, params %s: %w",
			note.Pool, sc.Pool(), pub.Pool, pool, claim.ErrPoolMismatch)
	}
	if pub.Value != note.Value {
		return nil, fmt.Errorf("prove: declared value %d, note value %d: %w",
			pub.Value, note.Value, claim.ErrValueMismatch)
	}
	if len(w.Siblings) != int(p.params.Depth) || w.Position != note.Position {
		return nil, fmt.Errorf("prove: witness shape does not match note: %w",
			claim.ErrInvalidWitness)
	}

	opening, err := sc.Open(note)
	if err != nil {
		return nil, fmt.Errorf("prove: spending context cannot open note: %w (%v)",
			claim.ErrProofSystem, err)
	}

	// The opening must reproduce the note commitment and the witness must
	// carry that commitment to the declared root.
	cm := claim.NoteCommitment(pool, opening.SpendKey, opening.Rcm, note.Value)
	if cm != note.Commitment {
		return nil, fmt.Errorf("prove: opening does not match note commitment: %w",
			claim.ErrInvalidWitness)
	}
	if tree.Recombine(pool, cm, w) != pub.Root {
		return nil, fmt.Errorf("prove: witness does not reproduce declared root: %w",
			claim.ErrInvalidWitness)
	}

	nf, err := claim.DeriveNullifier(note.Commitment[:], note.Position, pool)
	if err != nil {
		return nil, err
	}
	if nf != pub.Nullifier {
		return nil, fmt.Errorf("prove: public nullifier does not match note: %w",
			claim.ErrProofSystem)
	}

	assignment := publicAssignment(pub)
	assignment.SpendKey = opening.SpendKey
	assignment.Rcm = opening.Rcm
	assignment.Position = note.Position
	assignment.Siblings = make([]frontend.Variable, len(w.Siblings))
	for i, sib := range w.Siblings {
		assignment.Siblings[i] = new(big.Int).SetBytes(sib[:])
	}

	full, err := frontend.NewWitness(assignment, pool.Curve().ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prove: witness assignment: %w (%v)", claim.ErrProofSystem, err)
	}
	proof, err := groth16.Prove(p.params.ccs, p.params.pk, full)
	if err != nil {
		return nil, fmt.Errorf("prove: %w (%v)", claim.ErrProofSystem, err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("prove: encode proof: %w (%v)", claim.ErrProofSystem, err)
	}
	if buf.Len() != pool.ProofSize() {
		return nil, fmt.Errorf("prove: proof is %d bytes, want %d: %w",
			buf.Len(), pool.ProofSize(), claim.ErrProofSystem)
	}
	return buf.Bytes(), nil
}

// publicAssignment fills the public half of a circuit assignment from
// verified-side inputs. Shared by prover and verifier so both bind the
// exact same statement.
func publicAssignment(pub claim.PublicInputs) *circuits.ClaimCircuit {
	limbs := fieldenc.RecipientLimbs(pub.Recipient[:])
	c := &circuits.ClaimCircuit{
		Root:      new(big.Int).SetBytes(pub.Root[:]),
		Value:     pub.Value,
		Nullifier: new(big.Int).SetBytes(pub.Nullifier[:]),
	}
	c.Recipient[0] = limbs[0]
	c.Recipient[1] = limbs[1]
	c.Recipient[2] = limbs[2]
	return c
}
