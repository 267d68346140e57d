package wallet

import (
	"fmt"

	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/prove"
)

// spendingContext resolves note openings from the wallet by commitment.
// The engine sees only the Opening it asks for; raw keys never leave the
// wallet in any other form.
type spendingContext struct {
	w    *Wallet
	pool claim.PoolKind
}

// SpendingContext returns a prove.SpendingContext over the wallet's notes
// in the given pool.
func (w *Wallet) SpendingContext(pool claim.PoolKind) prove.SpendingContext {
	return &spendingContext{w: w, pool: pool}
}

func (s *spendingContext) Pool() claim.PoolKind { return s.pool }

func (s *spendingContext) Open(note claim.NoteDescriptor) (prove.Opening, error) {
	if note.Pool != s.pool {
		return prove.Opening{}, fmt.Errorf("%w: context holds %s keys, note is %s",
			claim.ErrPoolMismatch, s.pool, note.Pool)
	}
	rec, err := s.w.Note(s.pool, note.Position)
	if err != nil {
		return prove.Opening{}, err
	}
	if rec.Commitment != note.Commitment {
		return prove.Opening{}, fmt.Errorf("commitment mismatch at position %d", note.Position)
	}
	return prove.Opening{SpendKey: rec.SpendKey, Rcm: rec.Rcm}, nil
}
