package claim

import "fmt"

// RootSet is the caller-supplied window of currently acceptable tree roots.
// The verifier holds no tree state of its own.
type RootSet interface {
	Contains(root [HashLen]byte) bool
}

// NullifierView is a read-only view of the nullifier registry at
// verification time. Recording an accepted nullifier is the caller's
// responsibility and must be check-then-insert atomic with respect to
// concurrent claims bearing the same nullifier.
type NullifierView interface {
	Contains(nf Nullifier) (bool, error)
}

// ProofSystem verifies opaque proof bytes against public inputs under the
// pool's verification parameters. It is an interface so the succinct-proof
// backend stays swappable without touching the verifier's control flow.
type ProofSystem interface {
	VerifyProof(pool PoolKind, proof []byte, pub PublicInputs) error
}

// Verify runs the single-pass claim verification state machine:
//
//	version → structure → root membership → nullifier freshness → proof
//
// It returns nil only when every step passes (Accept); any failure returns
// the specific reject reason and nothing is partially accepted. Verify is a
// pure function of its inputs and performs no writes.
func Verify(tx *ClaimTransaction, roots RootSet, seen NullifierView, ps ProofSystem) error {
	if tx == nil {
		return fmt.Errorf("nil claim: %w", ErrMalformedClaim)
	}

	// 1. Version gate, before any cryptographic work.
	if tx.Version != ClaimVersion {
		return fmt.Errorf("claim version %d: %w", tx.Version, ErrUnsupportedVersion)
	}

	// 2. Structural checks on the public inputs.
	pub := tx.PublicInputs
	if !pub.Pool.Valid() {
		return fmt.Errorf("pool tag %d: %w", uint8(pub.Pool), ErrMalformedClaim)
	}
	if len(tx.Proof) != pub.Pool.ProofSize() {
		return fmt.Errorf("proof is %d bytes, want %d: %w",
			len(tx.Proof), pub.Pool.ProofSize(), ErrMalformedClaim)
	}

	// 3. Root must be inside the caller's acceptance window.
	if !roots.Contains(pub.Root) {
		return fmt.Errorf("root %x: %w", pub.Root[:8], ErrUnknownRoot)
	}

	// 4. Nullifier freshness.
	used, err := seen.Contains(pub.Nullifier)
	if err != nil {
		return fmt.Errorf("nullifier lookup: %w", err)
	}
	if used {
		return fmt.Errorf("nullifier %x: %w", pub.Nullifier[:8], ErrDoubleClaim)
	}

	// 5. Cryptographic proof check.
	if err := ps.VerifyProof(pub.Pool, tx.Proof, pub); err != nil {
		return err
	}
	return nil
}

// RootList is a slice-backed RootSet for small windows.
type RootList [][HashLen]byte

func (rl RootList) Contains(root [HashLen]byte) bool {
	for _, r := range rl {
		if r == root {
			return true
		}
	}
	return false
}

// NullifierSet is an in-memory NullifierView, used in tests and as a
// reference implementation of the registry read side.
type NullifierSet map[Nullifier]struct{}

func (ns NullifierSet) Contains(nf Nullifier) (bool, error) {
	_, ok := ns[nf]
	return ok, nil
}

func (ns NullifierSet) Add(nf Nullifier) { ns[nf] = struct{}{} }
