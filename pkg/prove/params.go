package prove

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/yourorg/zecnam/circuits"
	"github.com/yourorg/zecnam/pkg/claim"
)

// Params holds the compiled constraint system and Groth16 keys for one
// (pool, depth) pair. Read-only after setup; safe for concurrent use.
type Params struct {
	Pool  claim.PoolKind
	Depth uint8

	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// Setup compiles the claim circuit for the pool and depth and runs the
// Groth16 trusted setup.
func Setup(pool claim.PoolKind, depth uint8) (*Params, error) {
	ccs, err := compile(pool, depth)
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup for %s: %w", pool, err)
	}
	return &Params{Pool: pool, Depth: depth, ccs: ccs, pk: pk, vk: vk}, nil
}

// LoadOrSetup reuses cached keys from dir when present, otherwise runs
// Setup and writes the cache. The constraint system is cheap to recompile
// and is never cached.
func LoadOrSetup(pool claim.PoolKind, depth uint8, dir string) (*Params, error) {
	ccs, err := compile(pool, depth)
	if err != nil {
		return nil, err
	}

	pkPath := filepath.Join(dir, fmt.Sprintf("claim_%s_d%d_pk.bin", pool, depth))
	vkPath := filepath.Join(dir, fmt.Sprintf("claim_%s_d%d_vk.bin", pool, depth))

	if pkBytes, err := os.ReadFile(pkPath); err == nil {
		vkBytes, err := os.ReadFile(vkPath)
		if err != nil {
			return nil, fmt.Errorf("key cache missing verifying key: %w", err)
		}
		pk := groth16.NewProvingKey(pool.Curve())
		if _, err := pk.ReadFrom(bytes.NewReader(pkBytes)); err != nil {
			return nil, fmt.Errorf("read cached proving key: %w", err)
		}
		vk := groth16.NewVerifyingKey(pool.Curve())
		if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
			return nil, fmt.Errorf("read cached verifying key: %w", err)
		}
		return &Params{Pool: pool, Depth: depth, ccs: ccs, pk: pk, vk: vk}, nil
	}

	p, err := Setup(pool, depth)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := p.pk.WriteTo(&buf); err != nil {
		return nil, err
	}
	if err := os.WriteFile(pkPath, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	buf.Reset()
	if _, err := p.vk.WriteTo(&buf); err != nil {
		return nil, err
	}
	if err := os.WriteFile(vkPath, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyingKey exposes the verifying key for registration with a Verifier.
func (p *Params) VerifyingKey() groth16.VerifyingKey { return p.vk }

func compile(pool claim.PoolKind, depth uint8) (constraint.ConstraintSystem, error) {
	if !pool.Valid() {
		return nil, fmt.Errorf("pool tag %d: %w", uint8(pool), claim.ErrPoolMismatch)
	}
	ccs, err := frontend.Compile(
		pool.Curve().ScalarField(),
		r1cs.NewBuilder,
		circuits.NewClaimCircuit(pool, depth),
	)
	if err != nil {
		return nil, fmt.Errorf("compile claim circuit for %s depth %d: %w", pool, depth, err)
	}
	return ccs, nil
}
