// Package wallet is the persistent collaborator around the claim engine: a
// LevelDB-backed store of decrypted notes and their secret openings, the
// commitment-tree leaves the engine snapshots, a transaction record log,
// and the nullifier registry with the atomic check-then-insert the
// verifier's caller depends on.
package wallet

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
)

const walletVersion = "0.2.0"

var metaKey = []byte("meta")

// Metadata describes the wallet instance.
type Metadata struct {
	Name      string
	Network   string
	Version   string
	CreatedAt uint64
	LastSync  uint64
}

// Wallet wraps LevelDB for note, leaf, and nullifier persistence.
type Wallet struct {
	db  *leveldb.DB
	log zerolog.Logger

	// mu serializes the read-modify-write sequences: leaf appends and the
	// nullifier check-then-insert.
	mu sync.Mutex
}

// Open opens or creates a wallet database at path. An empty path opens an
// in-memory database, used in tests.
func Open(path string, logger zerolog.Logger) (*Wallet, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open wallet database %q: %w", path, err)
	}
	return &Wallet{db: db, log: logger}, nil
}

func (w *Wallet) Close() error { return w.db.Close() }

// Init writes fresh wallet metadata. Calling it on an initialized wallet
// replaces the metadata but leaves notes intact.
func (w *Wallet) Init(name, network string) (Metadata, error) {
	meta := Metadata{
		Name:      name,
		Network:   network,
		Version:   walletVersion,
		CreatedAt: uint64(time.Now().Unix()),
	}
	if err := w.putRLP(metaKey, &meta); err != nil {
		return Metadata{}, err
	}
	w.log.Info().Str("name", name).Str("network", network).Msg("initialized wallet")
	return meta, nil
}

// Metadata loads the wallet metadata.
func (w *Wallet) Metadata() (Metadata, error) {
	var meta Metadata
	if err := w.getRLP(metaKey, &meta); err != nil {
		return Metadata{}, fmt.Errorf("wallet not initialized: %w", err)
	}
	return meta, nil
}

// TouchSync stamps the last-sync time.
func (w *Wallet) TouchSync() error {
	meta, err := w.Metadata()
	if err != nil {
		return err
	}
	meta.LastSync = uint64(time.Now().Unix())
	return w.putRLP(metaKey, &meta)
}

func (w *Wallet) putRLP(key []byte, v interface{}) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return err
	}
	return w.db.Put(key, data, nil)
}

func (w *Wallet) getRLP(key []byte, v interface{}) error {
	data, err := w.db.Get(key, nil)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, v)
}
