package claim

import (
	"fmt"
	"hash"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	mimcbls "github.com/consensys/gnark-crypto/ecc/bls12-381/fr/mimc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	mimcbn "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/yourorg/zecnam/internal/fieldenc"
)

// PoolKind selects the shielded pool the claimed note lives in. The two
// pools share one claim pipeline but differ in scalar field, hash domains
// and proof length, so everything downstream is parameterized by this tag.
type PoolKind uint8

const (
	Sapling PoolKind = 0
	Orchard PoolKind = 1
)

func (p PoolKind) Valid() bool { return p == Sapling || p == Orchard }

func (p PoolKind) String() string {
	switch p {
	case Sapling:
		return "sapling"
	case Orchard:
		return "orchard"
	default:
		return fmt.Sprintf("pool(%d)", uint8(p))
	}
}

// ParsePool maps the CLI note-type spelling to a PoolKind.
func ParsePool(s string) (PoolKind, error) {
	switch strings.ToLower(s) {
	case "sapling":
		return Sapling, nil
	case "orchard":
		return Orchard, nil
	default:
		return 0, fmt.Errorf("unknown note type %q: %w", s, ErrPoolMismatch)
	}
}

// Curve returns the proving curve of the pool. Sapling runs over BLS12-381,
// matching the field of the real Sapling circuit; Orchard runs over BN254.
func (p PoolKind) Curve() ecc.ID {
	if p == Orchard {
		return ecc.BN254
	}
	return ecc.BLS12_381
}

// ProofSize is the exact byte length of a compressed Groth16 proof on the
// pool's curve: Ar | Bs | Krs plus the (empty) commitment list and its proof
// of knowledge, as written by gnark's Proof.WriteTo.
func (p PoolKind) ProofSize() int {
	if p == Orchard {
		return 3*bn254.SizeOfG1AffineCompressed + bn254.SizeOfG2AffineCompressed + 4
	}
	return 3*bls12381.SizeOfG1AffineCompressed + bls12381.SizeOfG2AffineCompressed + 4
}

// NewHasher returns the pool's two-child compression function, a MiMC
// instance over the pool's scalar field. Inputs must be canonical 32-byte
// field-element encodings.
func (p PoolKind) NewHasher() hash.Hash {
	if p == Orchard {
		return mimcbn.NewMiMC()
	}
	return mimcbls.NewMiMC()
}

// Canonical reduces b into the pool's scalar field and returns its canonical
// 32-byte big-endian encoding.
func (p PoolKind) Canonical(b []byte) [32]byte {
	return fieldenc.Canonical(p.Curve(), b)
}

// Domain separation constants. The strings are short enough to be below
// either field modulus, so the same big.Int is usable as an in-circuit
// constant and, canonically encoded, as an out-of-circuit hash input.
func (p PoolKind) DomainNote() *big.Int { return domainOf(p, "cm") }
func (p PoolKind) DomainKey() *big.Int  { return domainOf(p, "ak") }
func (p PoolKind) DomainNf() *big.Int   { return domainOf(p, "nf") }

func domainOf(p PoolKind, tag string) *big.Int {
	return new(big.Int).SetBytes([]byte("ZecNam." + p.String() + "." + tag))
}

// CompressNode hashes two canonical child encodings into their parent.
func (p PoolKind) CompressNode(left, right [32]byte) [32]byte {
	h := p.NewHasher()
	_, _ = h.Write(left[:])
	_, _ = h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
