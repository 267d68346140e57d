// Package circuits defines the gnark circuit behind a shielded airdrop
// claim: the prover knows an opening of a note commitment sitting in the
// pool's commitment tree under the public root, and the public value and
// nullifier are the ones derived from that opening. The recipient limbs are
// public inputs so the proof is bound to the destination address.
package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/yourorg/zecnam/internal/fieldenc"
	"github.com/yourorg/zecnam/pkg/claim"
)

// ClaimCircuit is compiled once per (pool, depth) pair. The pool fixes the
// proving curve and the hash domains; the depth fixes the length of the
// sibling path.
type ClaimCircuit struct {
	Root      frontend.Variable    `gnark:",public"`
	Value     frontend.Variable    `gnark:",public"`
	Recipient [3]frontend.Variable `gnark:",public"`
	Nullifier frontend.Variable    `gnark:",public"`

	SpendKey frontend.Variable
	Rcm      frontend.Variable
	Position frontend.Variable
	Siblings []frontend.Variable

	pool claim.PoolKind
}

// NewClaimCircuit returns a compile blueprint for the given pool and tree
// depth.
func NewClaimCircuit(pool claim.PoolKind, depth uint8) *ClaimCircuit {
	return &ClaimCircuit{
		pool:     pool,
		Siblings: make([]frontend.Variable, depth),
	}
}

func (c *ClaimCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// Value fits u64; recipient limbs fit their byte widths.
	api.ToBinary(c.Value, 64)
	api.ToBinary(c.Recipient[0], fieldenc.RecipientLimb0*8)
	api.ToBinary(c.Recipient[1], fieldenc.RecipientLimb1*8)
	api.ToBinary(c.Recipient[2], fieldenc.RecipientLimb2*8)

	// ak = H(domainKey, sk)
	hasher.Write(c.pool.DomainKey(), c.SpendKey)
	ak := hasher.Sum()

	// cm = H(domainNote, ak, value, rcm)
	hasher.Reset()
	hasher.Write(c.pool.DomainNote(), ak, c.Value, c.Rcm)
	cm := hasher.Sum()

	// Path recombination. Bit i of the position tells whether the running
	// node is the right child at height i; ToBinary also range-checks the
	// position against the tree capacity.
	bits := api.ToBinary(c.Position, len(c.Siblings))
	cur := cm
	for i, sib := range c.Siblings {
		left := api.Select(bits[i], sib, cur)
		right := api.Select(bits[i], cur, sib)
		hasher.Reset()
		hasher.Write(left, right)
		cur = hasher.Sum()
	}
	api.AssertIsEqual(cur, c.Root)

	// nf = H(domainNf, cm, position), must match the public nullifier.
	hasher.Reset()
	hasher.Write(c.pool.DomainNf(), cm, c.Position)
	api.AssertIsEqual(hasher.Sum(), c.Nullifier)

	return nil
}
