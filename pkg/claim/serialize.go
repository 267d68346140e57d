package claim

import (
	"encoding/binary"
	"fmt"
)

// Canonical claim wire layout, network byte order, no padding:
//
//	offset  size  field
//	0       1     version
//	1       1     pool tag
//	2       32    root
//	34      8     value (u64)
//	42      43    recipient
//	85      32    nullifier
//	117     M     proof (M fixed per pool)
//
// Total length is fixed per (pool, version) pair.
const headerLen = 2 + HashLen + 8 + RecipientLen + HashLen

// EncodedLen returns the exact wire length of a claim for the given pool.
func EncodedLen(pool PoolKind) int { return headerLen + pool.ProofSize() }

// Encode serializes tx into its canonical binary form.
func Encode(tx *ClaimTransaction) ([]byte, error) {
	if tx == nil {
		return nil, fmt.Errorf("nil claim: %w", ErrMalformedClaim)
	}
	pub := tx.PublicInputs
	if !pub.Pool.Valid() {
		return nil, fmt.Errorf("pool tag %d: %w", uint8(pub.Pool), ErrMalformedClaim)
	}
	if len(tx.Proof) != pub.Pool.ProofSize() {
		return nil, fmt.Errorf("proof is %d bytes, want %d: %w",
			len(tx.Proof), pub.Pool.ProofSize(), ErrMalformedClaim)
	}

	out := make([]byte, 0, EncodedLen(pub.Pool))
	out = append(out, tx.Version, byte(pub.Pool))
	out = append(out, pub.Root[:]...)
	out = binary.BigEndian.AppendUint64(out, pub.Value)
	out = append(out, pub.Recipient[:]...)
	out = append(out, pub.Nullifier[:]...)
	out = append(out, tx.Proof...)
	return out, nil
}

// Decode parses canonical claim bytes. The version gate runs before
// anything else so an unknown version is reported as such and never
// reinterpreted; every other shape defect is ErrMalformedClaim.
func Decode(data []byte) (*ClaimTransaction, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("empty claim: %w", ErrMalformedClaim)
	}
	if data[0] != ClaimVersion {
		return nil, fmt.Errorf("claim version %d: %w", data[0], ErrUnsupportedVersion)
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("claim truncated at pool tag: %w", ErrMalformedClaim)
	}
	pool := PoolKind(data[1])
	if !pool.Valid() {
		return nil, fmt.Errorf("pool tag %d: %w", data[1], ErrMalformedClaim)
	}
	if len(data) != EncodedLen(pool) {
		return nil, fmt.Errorf("claim is %d bytes, want %d for %s: %w",
			len(data), EncodedLen(pool), pool, ErrMalformedClaim)
	}

	tx := &ClaimTransaction{Version: data[0]}
	tx.PublicInputs.Pool = pool
	off := 2
	copy(tx.PublicInputs.Root[:], data[off:off+HashLen])
	off += HashLen
	tx.PublicInputs.Value = binary.BigEndian.Uint64(data[off : off+8])
	off += 8
	copy(tx.PublicInputs.Recipient[:], data[off:off+RecipientLen])
	off += RecipientLen
	copy(tx.PublicInputs.Nullifier[:], data[off:off+HashLen])
	off += HashLen
	tx.Proof = make([]byte, pool.ProofSize())
	copy(tx.Proof, data[off:])
	return tx, nil
}
