package tree

import (
	"fmt"

	"github.com/yourorg/zecnam/pkg/claim"
)

// Witness is an authentication path from a leaf to the snapshot root.
// Siblings[i] is the sibling at height i; the direction at height i is bit
// i of Position (set = the current node is the right child).
type Witness struct {
	Position uint64
	Siblings [][32]byte
}

// Build produces the membership witness for a note against a snapshot of
// the same pool. The returned path is checked to recombine to the snapshot
// root before it is handed back; that postcondition failing means the
// snapshot is internally inconsistent and is reported as an invalid
// witness rather than silently returned.
func Build(note claim.NoteDescriptor, snap *Snapshot) (*Witness, error) {
	if note.Pool != snap.pool {
		return nil, fmt.Errorf("tree: note pool %s, snapshot pool %s: %w",
			note.Pool, snap.pool, claim.ErrPoolMismatch)
	}
	if note.Position >= uint64(1)<<snap.depth {
		return nil, fmt.Errorf("tree: position %d exceeds capacity of depth %d: %w",
			note.Position, snap.depth, claim.ErrPositionOutOfRange)
	}
	if note.Position >= snap.Size() {
		return nil, fmt.Errorf("tree: position %d beyond frontier %d: %w",
			note.Position, snap.Size(), claim.ErrStaleSnapshot)
	}

	w := &Witness{
		Position: note.Position,
		Siblings: make([][32]byte, snap.depth),
	}
	idx := note.Position
	for h := uint8(0); h < snap.depth; h++ {
		w.Siblings[h] = snap.node(h, idx^1)
		idx >>= 1
	}

	leaf := snap.pool.Canonical(note.Commitment[:])
	if Recombine(snap.pool, leaf, w) != snap.Root() {
		return nil, fmt.Errorf("tree: path for position %d does not reach root: %w",
			note.Position, claim.ErrInvalidWitness)
	}
	return w, nil
}

// Recombine hashes a leaf up the witness path and returns the resulting
// root. Exported so the prover can re-check a witness against the declared
// public root before spending proving time.
func Recombine(pool claim.PoolKind, leaf [32]byte, w *Witness) [32]byte {
	cur := leaf
	idx := w.Position
	for _, sib := range w.Siblings {
		if idx&1 == 0 {
			cur = pool.CompressNode(cur, sib)
		} else {
			cur = pool.CompressNode(sib, cur)
		}
		idx >>= 1
	}
	return cur
}
