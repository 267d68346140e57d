package prove_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/prove"
	"github.com/yourorg/zecnam/pkg/tree"
)

const testDepth = 8

// openings is a fixed in-memory SpendingContext for tests.
type openings struct {
	pool claim.PoolKind
	byCm map[[32]byte]prove.Opening
}

func (o *openings) Pool() claim.PoolKind { return o.pool }

func (o *openings) Open(note claim.NoteDescriptor) (prove.Opening, error) {
	op, ok := o.byCm[note.Commitment]
	if !ok {
		return prove.Opening{}, fmt.Errorf("no opening for commitment %x", note.Commitment[:8])
	}
	return op, nil
}

// fixture is one pool's proving setup plus a small populated tree. Trusted
// setup is expensive, so each pool's fixture is built once per test binary.
type fixture struct {
	params *prove.Params
	notes  []claim.NoteDescriptor
	sc     *openings
	snap   *tree.Snapshot
}

var (
	fixtures   = map[claim.PoolKind]*fixture{}
	fixtureMu  sync.Mutex
	fixtureErr = map[claim.PoolKind]error{}
)

func getFixture(t *testing.T, pool claim.PoolKind) *fixture {
	t.Helper()
	fixtureMu.Lock()
	defer fixtureMu.Unlock()
	if f, ok := fixtures[pool]; ok {
		return f
	}
	if err, ok := fixtureErr[pool]; ok {
		t.Fatalf("fixture for %s: %v", pool, err)
	}
	f, err := buildFixture(pool)
	if err != nil {
		fixtureErr[pool] = err
		t.Fatalf("fixture for %s: %v", pool, err)
	}
	fixtures[pool] = f
	return f
}

func buildFixture(pool claim.PoolKind) (*fixture, error) {
	params, err := prove.Setup(pool, testDepth)
	if err != nil {
		return nil, err
	}

	sc := &openings{pool: pool, byCm: map[[32]byte]prove.Opening{}}
	values := []uint64{1_000_000, 250, 0}
	var notes []claim.NoteDescriptor
	var leaves [][]byte
	for i, v := range values {
		op := prove.Opening{
			SpendKey: big.NewInt(int64(1000 + i)),
			Rcm:      big.NewInt(int64(2000 + i)),
		}
		cm := claim.NoteCommitment(pool, op.SpendKey, op.Rcm, v)
		sc.byCm[cm] = op
		notes = append(notes, claim.NoteDescriptor{
			Pool: pool, Value: v, Commitment: cm, Position: uint64(i),
		})
		leaves = append(leaves, cm[:])
	}

	snap, err := tree.NewSnapshot(pool, testDepth, leaves)
	if err != nil {
		return nil, err
	}
	return &fixture{params: params, notes: notes, sc: sc, snap: snap}, nil
}

func (f *fixture) publicFor(t *testing.T, note claim.NoteDescriptor) claim.PublicInputs {
	t.Helper()
	nf, err := claim.DeriveNullifier(note.Commitment[:], note.Position, note.Pool)
	require.NoError(t, err)
	pub := claim.PublicInputs{
		Root:      f.snap.Root(),
		Value:     note.Value,
		Pool:      note.Pool,
		Nullifier: nf,
	}
	for i := range pub.Recipient {
		pub.Recipient[i] = byte(i + 1)
	}
	return pub
}

func (f *fixture) witnessFor(t *testing.T, note claim.NoteDescriptor) *tree.Witness {
	t.Helper()
	w, err := tree.Build(note, f.snap)
	require.NoError(t, err)
	return w
}

func TestProveAndVerifyEndToEnd(t *testing.T) {
	for _, pool := range []claim.PoolKind{claim.Sapling, claim.Orchard} {
		t.Run(pool.String(), func(t *testing.T) {
			f := getFixture(t, pool)
			note := f.notes[0]
			pub := f.publicFor(t, note)
			w := f.witnessFor(t, note)

			proof, err := prove.NewProver(f.params).Prove(note, f.sc, w, pub)
			require.NoError(t, err)
			require.Len(t, proof, pool.ProofSize())

			tx, err := claim.Assemble(pub, proof)
			require.NoError(t, err)
			data, err := claim.Encode(tx)
			require.NoError(t, err)
			decoded, err := claim.Decode(data)
			require.NoError(t, err)

			verifier := prove.NewVerifier()
			verifier.Register(pool, f.params.VerifyingKey())
			err = claim.Verify(decoded,
				claim.RootList{f.snap.Root()}, claim.NullifierSet{}, verifier)
			require.NoError(t, err)
		})
	}
}

func TestZeroValueNoteProves(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	note := f.notes[2]
	require.Zero(t, note.Value)
	pub := f.publicFor(t, note)

	proof, err := prove.NewProver(f.params).Prove(note, f.sc, f.witnessFor(t, note), pub)
	require.NoError(t, err)

	verifier := prove.NewVerifier()
	verifier.Register(claim.Sapling, f.params.VerifyingKey())
	require.NoError(t, verifier.VerifyProof(claim.Sapling, proof, pub))
}

func TestTamperedPublicInputsRejected(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	note := f.notes[0]
	pub := f.publicFor(t, note)

	proof, err := prove.NewProver(f.params).Prove(note, f.sc, f.witnessFor(t, note), pub)
	require.NoError(t, err)

	verifier := prove.NewVerifier()
	verifier.Register(claim.Sapling, f.params.VerifyingKey())
	require.NoError(t, verifier.VerifyProof(claim.Sapling, proof, pub))

	tampers := map[string]func(*claim.PublicInputs){
		"root":      func(p *claim.PublicInputs) { p.Root[31] ^= 1 },
		"value":     func(p *claim.PublicInputs) { p.Value++ },
		"recipient": func(p *claim.PublicInputs) { p.Recipient[0] ^= 1 },
		"nullifier": func(p *claim.PublicInputs) { p.Nullifier[31] ^= 1 },
	}
	for name, tamper := range tampers {
		t.Run(name, func(t *testing.T) {
			bad := pub
			tamper(&bad)
			err := verifier.VerifyProof(claim.Sapling, proof, bad)
			require.ErrorIs(t, err, claim.ErrInvalidProof)
		})
	}
}

func TestProofDoesNotTransferAcrossNotes(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	note := f.notes[0]
	pub := f.publicFor(t, note)

	proof, err := prove.NewProver(f.params).Prove(note, f.sc, f.witnessFor(t, note), pub)
	require.NoError(t, err)

	// Public inputs of a different note in the same tree.
	other := f.publicFor(t, f.notes[1])
	verifier := prove.NewVerifier()
	verifier.Register(claim.Sapling, f.params.VerifyingKey())
	require.ErrorIs(t, verifier.VerifyProof(claim.Sapling, proof, other), claim.ErrInvalidProof)
}

func TestProverConsistencyChecks(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	prover := prove.NewProver(f.params)
	note := f.notes[0]
	pub := f.publicFor(t, note)
	w := f.witnessFor(t, note)

	t.Run("value mismatch", func(t *testing.T) {
		bad := pub
		bad.Value = note.Value + 1
		_, err := prover.Prove(note, f.sc, w, bad)
		require.ErrorIs(t, err, claim.ErrValueMismatch)
	})

	t.Run("pool mismatch", func(t *testing.T) {
		badNote := note
		badNote.Pool = claim.Orchard
		_, err := prover.Prove(badNote, f.sc, w, pub)
		require.ErrorIs(t, err, claim.ErrPoolMismatch)
	})

	t.Run("short witness", func(t *testing.T) {
		short := &tree.Witness{Position: w.Position, Siblings: w.Siblings[:testDepth-1]}
		_, err := prover.Prove(note, f.sc, short, pub)
		require.ErrorIs(t, err, claim.ErrInvalidWitness)
	})

	t.Run("wrong root", func(t *testing.T) {
		bad := pub
		bad.Root[0] ^= 1
		_, err := prover.Prove(note, f.sc, w, bad)
		require.ErrorIs(t, err, claim.ErrInvalidWitness)
	})

	t.Run("wrong nullifier", func(t *testing.T) {
		bad := pub
		bad.Nullifier[0] ^= 1
		_, err := prover.Prove(note, f.sc, w, bad)
		require.ErrorIs(t, err, claim.ErrProofSystem)
	})

	t.Run("unopenable note", func(t *testing.T) {
		unknown := note
		unknown.Commitment[0] ^= 1
		_, err := prover.Prove(unknown, f.sc, w, pub)
		require.ErrorIs(t, err, claim.ErrProofSystem)
	})
}

func TestVerifierWithoutKeyRejects(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	note := f.notes[0]
	pub := f.publicFor(t, note)
	proof, err := prove.NewProver(f.params).Prove(note, f.sc, f.witnessFor(t, note), pub)
	require.NoError(t, err)

	require.ErrorIs(t,
		prove.NewVerifier().VerifyProof(claim.Sapling, proof, pub),
		claim.ErrInvalidProof)
}

func TestProveAll(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	prover := prove.NewProver(f.params)

	jobs := make([]prove.Job, 2)
	for i := range jobs {
		note := f.notes[i]
		jobs[i] = prove.Job{
			Note:    note,
			Context: f.sc,
			Witness: f.witnessFor(t, note),
			Public:  f.publicFor(t, note),
		}
	}

	proofs, err := prover.ProveAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, proofs, 2)

	verifier := prove.NewVerifier()
	verifier.Register(claim.Sapling, f.params.VerifyingKey())
	for i := range jobs {
		require.NoError(t, verifier.VerifyProof(claim.Sapling, proofs[i], jobs[i].Public))
	}
}

func TestProveAllCanceled(t *testing.T) {
	f := getFixture(t, claim.Sapling)
	prover := prove.NewProver(f.params)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	note := f.notes[0]
	_, err := prover.ProveAll(ctx, []prove.Job{{
		Note:    note,
		Context: f.sc,
		Witness: f.witnessFor(t, note),
		Public:  f.publicFor(t, note),
	}})
	require.ErrorIs(t, err, context.Canceled)
}
