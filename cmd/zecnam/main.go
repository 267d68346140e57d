// Command zecnam drives the claim engine from the shell: wallet management,
// claim creation, and offline verification. All state lives under --datadir.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourorg/zecnam/pkg/claim"
	"github.com/yourorg/zecnam/pkg/prove"
	"github.com/yourorg/zecnam/pkg/tree"
	"github.com/yourorg/zecnam/pkg/wallet"
)

const defaultTreeDepth = 32

var (
	dataDir string
	verbose bool
	logger  zerolog.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "zecnam",
		Short: "Zcash to MASP shielded airdrop claims",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if dataDir == "" {
				_ = godotenv.Load()
				dataDir = os.Getenv("ZECNAM_DATA")
				if dataDir == "" {
					dataDir = "./zecnam-data"
				}
			}
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "datadir", "", "Data directory (default $ZECNAM_DATA or ./zecnam-data)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging")

	root.AddCommand(
		newInitWalletCmd(),
		newImportNotesCmd(),
		newListNotesCmd(),
		newShowStatusCmd(),
		newGenerateTestDataCmd(),
		newCreateCmd(),
		newVerifyCmd(),
		newShowTxCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openWallet() (*wallet.Wallet, error) {
	return wallet.Open(filepath.Join(dataDir, "wallet"), logger)
}

func paramsDir() string { return filepath.Join(dataDir, "params") }

func newInitWalletCmd() *cobra.Command {
	var name, network string
	cmd := &cobra.Command{
		Use:   "init-wallet",
		Short: "Create wallet metadata in the data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()
			meta, err := w.Init(name, network)
			if err != nil {
				return err
			}
			fmt.Printf("wallet %q initialized for %s (v%s)\n", meta.Name, meta.Network, meta.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "airdrop", "Wallet name")
	cmd.Flags().StringVar(&network, "network", "mainnet", "Network label")
	return cmd
}

func newImportNotesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import-notes",
		Short: "Import note openings from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()
			n, err := w.ImportNotes(f)
			if err != nil {
				return err
			}
			if err := w.TouchSync(); err != nil {
				logger.Warn().Err(err).Msg("could not stamp sync time")
			}
			fmt.Printf("imported %d notes\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON note file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newListNotesCmd() *cobra.Command {
	var poolS string
	var minValue uint64
	cmd := &cobra.Command{
		Use:   "list-notes",
		Short: "List wallet notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pool *claim.PoolKind
			if poolS != "" {
				p, err := claim.ParsePool(poolS)
				if err != nil {
					return err
				}
				pool = &p
			}
			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()
			notes, err := w.ListNotes(pool, minValue)
			if err != nil {
				return err
			}
			for _, rec := range notes {
				status := "unspent"
				if rec.Spent {
					status = "spent"
				}
				fmt.Printf("%-8s pos=%-6d value=%-12d cm=%x  %s\n",
					claim.PoolKind(rec.Pool), rec.Position, rec.Value, rec.Commitment[:8], status)
			}
			fmt.Printf("%d notes\n", len(notes))
			return nil
		},
	}
	cmd.Flags().StringVar(&poolS, "pool", "", "Restrict to pool (sapling|orchard)")
	cmd.Flags().Uint64Var(&minValue, "min-value", 0, "Minimum note value")
	return cmd
}

func newShowStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-status",
		Short: "Print wallet metadata, balances, and claim counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()
			meta, err := w.Metadata()
			if err != nil {
				return err
			}
			fmt.Printf("wallet:   %s (%s, v%s)\n", meta.Name, meta.Network, meta.Version)
			if meta.LastSync != 0 {
				fmt.Printf("synced:   %s\n", time.Unix(int64(meta.LastSync), 0).UTC().Format(time.RFC3339))
			}
			balances, err := w.Balances()
			if err != nil {
				return err
			}
			for _, pool := range []claim.PoolKind{claim.Sapling, claim.Orchard} {
				fmt.Printf("%-8s  balance=%s\n", pool, balances[pool].Dec())
			}
			nfCount, err := w.Nullifiers().Count()
			if err != nil {
				return err
			}
			txs, err := w.ListTransactions()
			if err != nil {
				return err
			}
			fmt.Printf("claims:   %d recorded, %d nullifiers seen\n", len(txs), nfCount)
			return nil
		},
	}
}

func newGenerateTestDataCmd() *cobra.Command {
	var poolS string
	var count int
	var value uint64
	cmd := &cobra.Command{
		Use:   "generate-test-data",
		Short: "Fill the wallet with randomly generated notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := claim.ParsePool(poolS)
			if err != nil {
				return err
			}
			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()
			values := make([]uint64, count)
			for i := range values {
				values[i] = value
			}
			recs, err := w.GenerateTestNotes(pool, values)
			if err != nil {
				return err
			}
			fmt.Printf("generated %d %s notes of value %d\n", len(recs), pool, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&poolS, "pool", "sapling", "Pool (sapling|orchard)")
	cmd.Flags().IntVar(&count, "count", 8, "Number of notes")
	cmd.Flags().Uint64Var(&value, "value", 1_000_000, "Value per note")
	return cmd
}

func newCreateCmd() *cobra.Command {
	var (
		noteType  string
		noteIndex uint64
		amount    uint64
		recipient string
		outFile   string
		depth     uint8
	)
	cmd := &cobra.Command{
		Use:   "create-masp-airdrop",
		Short: "Prove a note and write a serialized claim transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := claim.ParsePool(noteType)
			if err != nil {
				return err
			}
			rec, err := claim.ParseRecipient(recipient)
			if err != nil {
				return err
			}

			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()

			note, err := w.Note(pool, noteIndex)
			if err != nil {
				return err
			}
			if note.Spent {
				return fmt.Errorf("note %s/%d is already spent", pool, noteIndex)
			}
			if amount != note.Value {
				return fmt.Errorf("%w: note holds %d, claim asks %d",
					claim.ErrValueMismatch, note.Value, amount)
			}

			snap, err := w.Snapshot(pool, depth)
			if err != nil {
				return err
			}
			wit, err := tree.Build(note.Descriptor(), snap)
			if err != nil {
				return err
			}
			nf, err := claim.DeriveNullifier(note.Commitment[:], note.Position, pool)
			if err != nil {
				return err
			}
			pub := claim.PublicInputs{
				Root:      snap.Root(),
				Value:     amount,
				Pool:      pool,
				Recipient: rec,
				Nullifier: nf,
			}

			logger.Info().Str("pool", pool.String()).Uint8("depth", depth).Msg("loading proving parameters")
			params, err := prove.LoadOrSetup(pool, depth, paramsDir())
			if err != nil {
				return err
			}

			start := time.Now()
			proof, err := prove.NewProver(params).Prove(note.Descriptor(), w.SpendingContext(pool), wit, pub)
			if err != nil {
				return err
			}
			logger.Info().Dur("elapsed", time.Since(start)).Msg("proof generated")

			tx, err := claim.Assemble(pub, proof)
			if err != nil {
				return err
			}
			data, err := claim.Encode(tx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return err
			}

			digest, err := tx.Digest()
			if err != nil {
				return err
			}
			if err := w.MarkSpent(pool, noteIndex); err != nil {
				return err
			}
			if err := w.RecordTransaction(wallet.TxRecord{
				Digest:    digest,
				Nullifier: nf,
				Pool:      uint8(pool),
				Amount:    amount,
				Recipient: claim.FormatRecipient(rec),
			}); err != nil {
				return err
			}

			fmt.Printf("claim written to %s (%d bytes)\n", outFile, len(data))
			fmt.Printf("digest:    %x\n", digest)
			fmt.Printf("nullifier: %x\n", nf[:])
			return nil
		},
	}
	cmd.Flags().StringVar(&noteType, "note-type", "sapling", "Pool of the source note (sapling|orchard)")
	cmd.Flags().Uint64Var(&noteIndex, "note-index", 0, "Leaf position of the note")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "Claim amount, must equal the note value")
	cmd.Flags().StringVar(&recipient, "masp-recipient", "", "MASP payment address, 43 bytes hex")
	cmd.Flags().StringVar(&outFile, "out-file", "claim.bin", "Output file")
	cmd.Flags().Uint8Var(&depth, "depth", defaultTreeDepth, "Commitment tree depth")
	_ = cmd.MarkFlagRequired("masp-recipient")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var txFile string
	var depth uint8
	cmd := &cobra.Command{
		Use:   "verify-masp-airdrop",
		Short: "Verify a serialized claim and record its nullifier on acceptance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(txFile)
			if err != nil {
				return err
			}
			tx, err := claim.Decode(data)
			if err != nil {
				fmt.Printf("Reject: %v\n", err)
				return err
			}
			pool := tx.PublicInputs.Pool

			w, err := openWallet()
			if err != nil {
				return err
			}
			defer w.Close()

			snap, err := w.Snapshot(pool, depth)
			if err != nil {
				return err
			}
			params, err := prove.LoadOrSetup(pool, depth, paramsDir())
			if err != nil {
				return err
			}
			verifier := prove.NewVerifier()
			verifier.Register(pool, params.VerifyingKey())

			registry := w.Nullifiers()
			if err := claim.Verify(tx, claim.RootList{snap.Root()}, registry, verifier); err != nil {
				fmt.Printf("Reject: %v\n", err)
				return err
			}
			if err := registry.Record(tx.PublicInputs.Nullifier); err != nil {
				fmt.Printf("Reject: %v\n", err)
				return err
			}
			digest, err := tx.Digest()
			if err != nil {
				return err
			}
			if err := w.RecordTransaction(wallet.TxRecord{
				Digest:    digest,
				Nullifier: tx.PublicInputs.Nullifier,
				Pool:      uint8(pool),
				Amount:    tx.PublicInputs.Value,
				Recipient: claim.FormatRecipient(tx.PublicInputs.Recipient),
			}); err != nil {
				return err
			}
			fmt.Println("Accept")
			return nil
		},
	}
	cmd.Flags().StringVar(&txFile, "tx-file", "", "Serialized claim file")
	cmd.Flags().Uint8Var(&depth, "depth", defaultTreeDepth, "Commitment tree depth")
	_ = cmd.MarkFlagRequired("tx-file")
	return cmd
}

func newShowTxCmd() *cobra.Command {
	var txFile string
	cmd := &cobra.Command{
		Use:   "show-masp-airdrop-tx",
		Short: "Decode a serialized claim and print its public fields",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(txFile)
			if err != nil {
				return err
			}
			tx, err := claim.Decode(data)
			if err != nil {
				return err
			}
			digest, err := tx.Digest()
			if err != nil {
				return err
			}
			pub := tx.PublicInputs
			fmt.Printf("version:    %d\n", tx.Version)
			fmt.Printf("pool:       %s\n", pub.Pool)
			fmt.Printf("root:       %x\n", pub.Root)
			fmt.Printf("value:      %d\n", pub.Value)
			fmt.Printf("recipient:  %s\n", claim.FormatRecipient(pub.Recipient))
			fmt.Printf("            (%x)\n", pub.Recipient)
			fmt.Printf("nullifier:  %x\n", pub.Nullifier[:])
			fmt.Printf("proof:      %d bytes\n", len(tx.Proof))
			fmt.Printf("digest:     %x\n", digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&txFile, "tx-file", "", "Serialized claim file")
	_ = cmd.MarkFlagRequired("tx-file")
	return cmd
}
