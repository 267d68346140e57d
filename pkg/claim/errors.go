package claim

import "errors"

// Error taxonomy of the claim engine. Every construction or verification
// failure wraps exactly one of these sentinels; callers dispatch with
// errors.Is. All are terminal for the current attempt — nothing here is
// retryable by the engine itself.
var (
	// Witness building.
	ErrPoolMismatch       = errors.New("pool mismatch")
	ErrPositionOutOfRange = errors.New("position out of range")
	ErrStaleSnapshot      = errors.New("stale snapshot")

	// Proof generation.
	ErrInvalidWitness = errors.New("invalid witness")
	ErrValueMismatch  = errors.New("value mismatch")
	ErrProofSystem    = errors.New("proof system error")

	// Nullifier derivation.
	ErrInvalidCommitmentLength = errors.New("invalid commitment length")

	// Assembly and wire format.
	ErrIncompleteInputs   = errors.New("incomplete inputs")
	ErrMalformedClaim     = errors.New("malformed claim")
	ErrUnsupportedVersion = errors.New("unsupported version")

	// Verification rejects.
	ErrUnknownRoot  = errors.New("unknown root")
	ErrDoubleClaim  = errors.New("double claim")
	ErrInvalidProof = errors.New("invalid proof")
)
