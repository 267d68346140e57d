// Package fieldenc holds the canonical byte encoding of scalar-field
// elements shared by the claim engine, the tree builder, and the circuit
// assignment code. All 32-byte hashes in the wire format are canonical
// big-endian field elements of the pool's curve.
package fieldenc

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	frbls "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	frbn "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Recipient limb widths, in bytes. A 43-byte MASP payment address enters the
// circuit as three big-endian limbs so each fits the scalar field of either
// supported curve.
const (
	RecipientLimb0 = 16
	RecipientLimb1 = 16
	RecipientLimb2 = 11
)

// Canonical reduces b modulo the scalar field of id and returns the 32-byte
// big-endian canonical encoding. Total for any input length.
func Canonical(id ecc.ID, b []byte) [32]byte {
	switch id {
	case ecc.BLS12_381:
		var e frbls.Element
		e.SetBytes(b)
		return e.Bytes()
	case ecc.BN254:
		var e frbn.Element
		e.SetBytes(b)
		return e.Bytes()
	default:
		panic("fieldenc: unsupported curve")
	}
}

// CanonicalUint64 encodes v as a canonical field element of id.
func CanonicalUint64(id ecc.ID, v uint64) [32]byte {
	switch id {
	case ecc.BLS12_381:
		var e frbls.Element
		e.SetUint64(v)
		return e.Bytes()
	case ecc.BN254:
		var e frbn.Element
		e.SetUint64(v)
		return e.Bytes()
	default:
		panic("fieldenc: unsupported curve")
	}
}

// CanonicalBig encodes v (assumed non-negative) as a canonical field element
// of id, reducing if necessary.
func CanonicalBig(id ecc.ID, v *big.Int) [32]byte {
	return Canonical(id, v.Bytes())
}

// RecipientLimbs splits a 43-byte recipient encoding into the three
// big-endian limbs used as circuit public inputs.
func RecipientLimbs(rec []byte) [3]*big.Int {
	var out [3]*big.Int
	out[0] = new(big.Int).SetBytes(rec[:RecipientLimb0])
	out[1] = new(big.Int).SetBytes(rec[RecipientLimb0 : RecipientLimb0+RecipientLimb1])
	out[2] = new(big.Int).SetBytes(rec[RecipientLimb0+RecipientLimb1:])
	return out
}
