package wallet

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/yourorg/zecnam/pkg/claim"
)

// NullifierRegistry is the wallet's view of spent nullifiers. It implements
// claim.NullifierView for the verifier and adds the atomic check-then-insert
// acceptance needs.
type NullifierRegistry struct {
	w *Wallet
}

// Nullifiers returns the wallet's nullifier registry.
func (w *Wallet) Nullifiers() *NullifierRegistry {
	return &NullifierRegistry{w: w}
}

func nullifierKey(nf claim.Nullifier) []byte {
	return append([]byte("nf/"), nf[:]...)
}

type nullifierEntry struct {
	SeenAt uint64
}

// Contains reports whether the nullifier has been recorded.
func (r *NullifierRegistry) Contains(nf claim.Nullifier) (bool, error) {
	return r.w.db.Has(nullifierKey(nf), nil)
}

// Record inserts the nullifier, failing with ErrDoubleClaim when it is
// already present. Check and insert happen under one lock so concurrent
// acceptances of the same claim cannot both succeed.
func (r *NullifierRegistry) Record(nf claim.Nullifier) error {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()

	seen, err := r.w.db.Has(nullifierKey(nf), nil)
	if err != nil {
		return err
	}
	if seen {
		return fmt.Errorf("%w: nullifier %x", claim.ErrDoubleClaim, nf[:])
	}
	data, err := rlp.EncodeToBytes(&nullifierEntry{SeenAt: uint64(time.Now().Unix())})
	if err != nil {
		return err
	}
	if err := r.w.db.Put(nullifierKey(nf), data, nil); err != nil {
		return err
	}
	r.w.log.Info().Hex("nullifier", nf[:]).Msg("recorded nullifier")
	return nil
}

// Count returns the number of recorded nullifiers.
func (r *NullifierRegistry) Count() (int, error) {
	iter := r.w.db.NewIterator(util.BytesPrefix([]byte("nf/")), nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// TxRecord is the wallet's log entry for a claim it produced or accepted.
type TxRecord struct {
	Digest    [32]byte
	Nullifier [32]byte
	Pool      uint8
	Amount    uint64
	Recipient string
	CreatedAt uint64
}

func txKey(digest [32]byte) []byte {
	return append([]byte("tx/"), digest[:]...)
}

// RecordTransaction logs the claim under its digest.
func (w *Wallet) RecordTransaction(rec TxRecord) error {
	rec.CreatedAt = uint64(time.Now().Unix())
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	return w.db.Put(txKey(rec.Digest), data, nil)
}

// ListTransactions returns all logged claims.
func (w *Wallet) ListTransactions() ([]TxRecord, error) {
	var out []TxRecord
	iter := w.db.NewIterator(util.BytesPrefix([]byte("tx/")), nil)
	defer iter.Release()
	for iter.Next() {
		var rec TxRecord
		if err := rlp.DecodeBytes(iter.Value(), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}

var _ claim.NullifierView = (*NullifierRegistry)(nil)
