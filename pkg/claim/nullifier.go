package claim

import (
	"fmt"
	"math/big"

	"github.com/yourorg/zecnam/internal/fieldenc"
)

// DeriveNullifier computes the pool-tagged nullifier for a note at a given
// tree position:
//
//	nf = MiMC_pool(domainNf, commitment, position)
//
// The derivation is pure and bit-exact across processes and independently
// written verifiers; the claim circuit recomputes the same value so the
// proof binds it. The only failure mode is a commitment of the wrong width.
func DeriveNullifier(commitment []byte, position uint64, pool PoolKind) (Nullifier, error) {
	var nf Nullifier
	if len(commitment) != HashLen {
		return nf, fmt.Errorf("commitment is %d bytes, want %d: %w",
			len(commitment), HashLen, ErrInvalidCommitmentLength)
	}
	if !pool.Valid() {
		return nf, fmt.Errorf("pool tag %d: %w", uint8(pool), ErrPoolMismatch)
	}

	id := pool.Curve()
	dom := fieldenc.CanonicalBig(id, pool.DomainNf())
	cm := pool.Canonical(commitment)
	pos := fieldenc.CanonicalUint64(id, position)

	h := pool.NewHasher()
	_, _ = h.Write(dom[:])
	_, _ = h.Write(cm[:])
	_, _ = h.Write(pos[:])
	copy(nf[:], h.Sum(nil))
	return nf, nil
}

// NoteCommitment computes a note commitment from its secret opening:
//
//	cm = MiMC_pool(domainNote, ak, value, rcm)   with ak = MiMC_pool(domainKey, sk)
//
// The wallet uses this when minting or importing notes and the prover uses
// it to check that a spending context actually opens the note it claims.
func NoteCommitment(pool PoolKind, spendKey, rcm *big.Int, value uint64) [HashLen]byte {
	id := pool.Curve()
	ak := spendAuthority(pool, spendKey)

	domNote := fieldenc.CanonicalBig(id, pool.DomainNote())
	val := fieldenc.CanonicalUint64(id, value)
	r := fieldenc.CanonicalBig(id, rcm)

	h := pool.NewHasher()
	_, _ = h.Write(domNote[:])
	_, _ = h.Write(ak[:])
	_, _ = h.Write(val[:])
	_, _ = h.Write(r[:])
	var cm [HashLen]byte
	copy(cm[:], h.Sum(nil))
	return cm
}

func spendAuthority(pool PoolKind, spendKey *big.Int) [HashLen]byte {
	id := pool.Curve()
	domKey := fieldenc.CanonicalBig(id, pool.DomainKey())
	sk := fieldenc.CanonicalBig(id, spendKey)

	h := pool.NewHasher()
	_, _ = h.Write(domKey[:])
	_, _ = h.Write(sk[:])
	var ak [HashLen]byte
	copy(ak[:], h.Sum(nil))
	return ak
}
