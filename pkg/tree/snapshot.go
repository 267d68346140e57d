// Package tree builds Merkle membership witnesses over note commitment
// trees. A snapshot is an append-only commitment tree frozen at some chain
// height; the builder produces authentication paths that recombine to the
// snapshot root under the pool's compression function.
package tree

import (
	"fmt"

	"github.com/yourorg/zecnam/pkg/claim"
)

// Snapshot is a read-only commitment tree state. Leaves are canonical
// field-element encodings; positions beyond the recorded frontier are
// padded with the per-level empty-subtree hash ladder.
type Snapshot struct {
	pool    claim.PoolKind
	depth   uint8
	levels  [][][32]byte // levels[0] = leaves, levels[depth] = [root]
	empties [][32]byte   // empties[i] = root of an empty subtree of height i
}

// NewSnapshot builds a snapshot of the given depth over the recorded
// leaves. Leaf byte strings must be 32 bytes wide; they are reduced to the
// pool's canonical field encoding before hashing.
func NewSnapshot(pool claim.PoolKind, depth uint8, leaves [][]byte) (*Snapshot, error) {
	if !pool.Valid() {
		return nil, fmt.Errorf("tree: pool tag %d: %w", uint8(pool), claim.ErrPoolMismatch)
	}
	if depth == 0 || depth > 63 {
		return nil, fmt.Errorf("tree: depth %d unsupported: %w", depth, claim.ErrStaleSnapshot)
	}
	if uint64(len(leaves)) > uint64(1)<<depth {
		return nil, fmt.Errorf("tree: %d leaves exceed capacity of depth %d: %w",
			len(leaves), depth, claim.ErrPositionOutOfRange)
	}

	s := &Snapshot{pool: pool, depth: depth}

	s.empties = make([][32]byte, depth+1)
	for i := uint8(1); i <= depth; i++ {
		s.empties[i] = pool.CompressNode(s.empties[i-1], s.empties[i-1])
	}

	level := make([][32]byte, len(leaves))
	for i, l := range leaves {
		if len(l) != claim.HashLen {
			return nil, fmt.Errorf("tree: leaf %d is %d bytes: %w",
				i, len(l), claim.ErrInvalidCommitmentLength)
		}
		level[i] = pool.Canonical(l)
	}

	s.levels = make([][][32]byte, depth+1)
	s.levels[0] = level
	for h := uint8(0); h < depth; h++ {
		cur := s.levels[h]
		next := make([][32]byte, (len(cur)+1)/2)
		if len(cur) == 0 {
			next = nil
		}
		for j := range next {
			left := cur[2*j]
			right := s.empties[h]
			if 2*j+1 < len(cur) {
				right = cur[2*j+1]
			}
			next[j] = pool.CompressNode(left, right)
		}
		s.levels[h+1] = next
	}
	return s, nil
}

// Pool returns the pool this snapshot belongs to.
func (s *Snapshot) Pool() claim.PoolKind { return s.pool }

// Depth returns the tree depth.
func (s *Snapshot) Depth() uint8 { return s.depth }

// Size returns the number of recorded leaves (the frontier).
func (s *Snapshot) Size() uint64 { return uint64(len(s.levels[0])) }

// Root returns the snapshot root.
func (s *Snapshot) Root() [32]byte {
	if len(s.levels[s.depth]) == 0 {
		return s.empties[s.depth]
	}
	return s.levels[s.depth][0]
}

// node returns the tree node at the given height and index, falling back to
// the empty-subtree hash right of the frontier.
func (s *Snapshot) node(height uint8, index uint64) [32]byte {
	lvl := s.levels[height]
	if index >= uint64(len(lvl)) {
		return s.empties[height]
	}
	return lvl[index]
}
