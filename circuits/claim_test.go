package circuits_test

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"

	"github.com/yourorg/zecnam/circuits"
	"github.com/yourorg/zecnam/internal/fieldenc"
	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/tree"
)

const depth = 4

// assignmentFor derives a fully consistent witness for one note sitting at
// position 0 of a depth-4 tree.
func assignmentFor(t *testing.T, pool claim.PoolKind) *circuits.ClaimCircuit {
	t.Helper()
	sk := big.NewInt(31337)
	rcm := big.NewInt(424242)
	value := uint64(1_000_000)

	cm := claim.NoteCommitment(pool, sk, rcm, value)
	snap, err := tree.NewSnapshot(pool, depth, [][]byte{cm[:]})
	if err != nil {
		t.Fatal(err)
	}
	note := claim.NoteDescriptor{Pool: pool, Value: value, Commitment: cm, Position: 0}
	w, err := tree.Build(note, snap)
	if err != nil {
		t.Fatal(err)
	}
	nf, err := claim.DeriveNullifier(cm[:], 0, pool)
	if err != nil {
		t.Fatal(err)
	}

	var recipient [claim.RecipientLen]byte
	for i := range recipient {
		recipient[i] = byte(0xa0 + i)
	}
	limbs := fieldenc.RecipientLimbs(recipient[:])

	root := snap.Root()
	a := circuits.NewClaimCircuit(pool, depth)
	a.Root = new(big.Int).SetBytes(root[:])
	a.Value = value
	a.Recipient[0] = limbs[0]
	a.Recipient[1] = limbs[1]
	a.Recipient[2] = limbs[2]
	a.Nullifier = new(big.Int).SetBytes(nf[:])
	a.SpendKey = sk
	a.Rcm = rcm
	a.Position = 0
	for i, sib := range w.Siblings {
		a.Siblings[i] = new(big.Int).SetBytes(sib[:])
	}
	return a
}

func TestClaimCircuitSatisfied(t *testing.T) {
	for _, pool := range []claim.PoolKind{claim.Sapling, claim.Orchard} {
		t.Run(pool.String(), func(t *testing.T) {
			assert := test.NewAssert(t)
			assert.ProverSucceeded(
				circuits.NewClaimCircuit(pool, depth),
				assignmentFor(t, pool),
				test.WithCurves(pool.Curve()),
			)
		})
	}
}

func TestClaimCircuitRejectsWrongNullifier(t *testing.T) {
	assert := test.NewAssert(t)
	a := assignmentFor(t, claim.Sapling)
	a.Nullifier = new(big.Int).Add(a.Nullifier.(*big.Int), big.NewInt(1))

	assert.ProverFailed(
		circuits.NewClaimCircuit(claim.Sapling, depth),
		a,
		test.WithCurves(claim.Sapling.Curve()),
	)
}

func TestClaimCircuitRejectsWrongRoot(t *testing.T) {
	assert := test.NewAssert(t)
	a := assignmentFor(t, claim.Sapling)
	a.Root = new(big.Int).Add(a.Root.(*big.Int), big.NewInt(1))

	assert.ProverFailed(
		circuits.NewClaimCircuit(claim.Sapling, depth),
		a,
		test.WithCurves(claim.Sapling.Curve()),
	)
}

func TestClaimCircuitRejectsForeignSpendKey(t *testing.T) {
	assert := test.NewAssert(t)
	a := assignmentFor(t, claim.Sapling)
	a.SpendKey = big.NewInt(999)

	assert.ProverFailed(
		circuits.NewClaimCircuit(claim.Sapling, depth),
		a,
		test.WithCurves(claim.Sapling.Curve()),
	)
}

var _ frontend.Circuit = (*circuits.ClaimCircuit)(nil)
