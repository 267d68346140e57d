package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/tree"
)

// NoteRecord is a decrypted note together with its secret opening. The
// position doubles as the note index shown to the user: leaves are appended
// in order, one per note.
type NoteRecord struct {
	Pool       uint8
	Value      uint64
	Position   uint64
	Commitment [32]byte
	SpendKey   *big.Int
	Rcm        *big.Int
	Spent      bool
	CreatedAt  uint64
}

// Descriptor returns the public view of the note.
func (r NoteRecord) Descriptor() claim.NoteDescriptor {
	return claim.NoteDescriptor{
		Pool:       claim.PoolKind(r.Pool),
		Value:      r.Value,
		Commitment: r.Commitment,
		Position:   r.Position,
	}
}

func noteKey(pool claim.PoolKind, position uint64) []byte {
	key := make([]byte, 0, 6+8)
	key = append(key, []byte("note/")...)
	key = append(key, byte(pool))
	key = binary.BigEndian.AppendUint64(key, position)
	return key
}

func leafKey(pool claim.PoolKind, index uint64) []byte {
	key := make([]byte, 0, 6+8)
	key = append(key, []byte("leaf/")...)
	key = append(key, byte(pool))
	key = binary.BigEndian.AppendUint64(key, index)
	return key
}

func leafCountKey(pool claim.PoolKind) []byte {
	return append([]byte("leafcount/"), byte(pool))
}

// AddNote derives the note commitment from the opening, assigns the next
// leaf position in the pool's tree, and persists record and leaf in one
// batch.
func (w *Wallet) AddNote(pool claim.PoolKind, value uint64, spendKey, rcm *big.Int) (NoteRecord, error) {
	if !pool.Valid() {
		return NoteRecord{}, fmt.Errorf("%w: pool tag %d", claim.ErrPoolMismatch, pool)
	}
	cm := claim.NoteCommitment(pool, spendKey, rcm, value)

	w.mu.Lock()
	defer w.mu.Unlock()

	count, err := w.leafCount(pool)
	if err != nil {
		return NoteRecord{}, err
	}
	rec := NoteRecord{
		Pool:       uint8(pool),
		Value:      value,
		Position:   count,
		Commitment: cm,
		SpendKey:   spendKey,
		Rcm:        rcm,
		CreatedAt:  uint64(time.Now().Unix()),
	}
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return NoteRecord{}, err
	}

	batch := new(leveldb.Batch)
	batch.Put(noteKey(pool, count), data)
	batch.Put(leafKey(pool, count), cm[:])
	batch.Put(leafCountKey(pool), binary.BigEndian.AppendUint64(nil, count+1))
	if err := w.db.Write(batch, nil); err != nil {
		return NoteRecord{}, err
	}
	w.log.Debug().
		Str("pool", pool.String()).
		Uint64("value", value).
		Uint64("position", count).
		Hex("commitment", cm[:]).
		Msg("added note")
	return rec, nil
}

func (w *Wallet) leafCount(pool claim.PoolKind) (uint64, error) {
	data, err := w.db.Get(leafCountKey(pool), nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

// Note loads the note at the given position in the pool's tree.
func (w *Wallet) Note(pool claim.PoolKind, position uint64) (NoteRecord, error) {
	var rec NoteRecord
	data, err := w.db.Get(noteKey(pool, position), nil)
	if err != nil {
		return NoteRecord{}, fmt.Errorf("note %s/%d: %w", pool, position, err)
	}
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return NoteRecord{}, err
	}
	return rec, nil
}

// ListNotes returns all notes, optionally restricted to one pool and to a
// minimum value, ordered by pool then position.
func (w *Wallet) ListNotes(pool *claim.PoolKind, minValue uint64) ([]NoteRecord, error) {
	var out []NoteRecord
	iter := w.db.NewIterator(util.BytesPrefix([]byte("note/")), nil)
	defer iter.Release()
	for iter.Next() {
		var rec NoteRecord
		if err := rlp.DecodeBytes(iter.Value(), &rec); err != nil {
			return nil, err
		}
		if pool != nil && claim.PoolKind(rec.Pool) != *pool {
			continue
		}
		if rec.Value < minValue {
			continue
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}

// MarkSpent flags the note at position as spent.
func (w *Wallet) MarkSpent(pool claim.PoolKind, position uint64) error {
	rec, err := w.Note(pool, position)
	if err != nil {
		return err
	}
	rec.Spent = true
	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return err
	}
	return w.db.Put(noteKey(pool, position), data, nil)
}

// Balances sums unspent note values per pool.
func (w *Wallet) Balances() (map[claim.PoolKind]*uint256.Int, error) {
	notes, err := w.ListNotes(nil, 0)
	if err != nil {
		return nil, err
	}
	out := map[claim.PoolKind]*uint256.Int{
		claim.Sapling: uint256.NewInt(0),
		claim.Orchard: uint256.NewInt(0),
	}
	for _, rec := range notes {
		if rec.Spent {
			continue
		}
		bal := out[claim.PoolKind(rec.Pool)]
		bal.Add(bal, uint256.NewInt(rec.Value))
	}
	return out, nil
}

// Leaves returns the pool's commitment leaves in position order.
func (w *Wallet) Leaves(pool claim.PoolKind) ([][]byte, error) {
	count, err := w.leafCount(pool)
	if err != nil {
		return nil, err
	}
	leaves := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		data, err := w.db.Get(leafKey(pool, i), nil)
		if err != nil {
			return nil, fmt.Errorf("leaf %s/%d: %w", pool, i, err)
		}
		leaves = append(leaves, data)
	}
	return leaves, nil
}

// Snapshot builds a frozen commitment-tree snapshot over the pool's leaves.
func (w *Wallet) Snapshot(pool claim.PoolKind, depth uint8) (*tree.Snapshot, error) {
	leaves, err := w.Leaves(pool)
	if err != nil {
		return nil, err
	}
	return tree.NewSnapshot(pool, depth, leaves)
}

type noteImport struct {
	Pool     string `json:"pool"`
	Value    uint64 `json:"value"`
	SpendKey string `json:"spendKey"`
	Rcm      string `json:"rcm"`
}

// ImportNotes reads a JSON array of note openings and adds each to the
// wallet, returning the number imported.
func (w *Wallet) ImportNotes(r io.Reader) (int, error) {
	var entries []noteImport
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode note import: %w", err)
	}
	for i, e := range entries {
		pool, err := claim.ParsePool(e.Pool)
		if err != nil {
			return i, fmt.Errorf("entry %d: %w", i, err)
		}
		sk, err := parseScalar(e.SpendKey)
		if err != nil {
			return i, fmt.Errorf("entry %d spendKey: %w", i, err)
		}
		rcm, err := parseScalar(e.Rcm)
		if err != nil {
			return i, fmt.Errorf("entry %d rcm: %w", i, err)
		}
		if _, err := w.AddNote(pool, e.Value, sk, rcm); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

func parseScalar(s string) (*big.Int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// GenerateTestNotes adds one note per value with randomly drawn openings.
func (w *Wallet) GenerateTestNotes(pool claim.PoolKind, values []uint64) ([]NoteRecord, error) {
	field := pool.Curve().ScalarField()
	out := make([]NoteRecord, 0, len(values))
	for _, v := range values {
		sk, err := rand.Int(rand.Reader, field)
		if err != nil {
			return nil, err
		}
		rcm, err := rand.Int(rand.Reader, field)
		if err != nil {
			return nil, err
		}
		rec, err := w.AddNote(pool, v, sk, rcm)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
