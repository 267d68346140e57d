package claim

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// recipientHRP is the human-readable part used when displaying a MASP
// payment address.
const recipientHRP = "znam"

// ParseRecipient decodes the hex recipient passed on the command line into
// the fixed-width MASP payment address encoding.
func ParseRecipient(s string) ([RecipientLen]byte, error) {
	var out [RecipientLen]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("recipient is not hex: %w", ErrMalformedClaim)
	}
	if len(raw) != RecipientLen {
		return out, fmt.Errorf("recipient is %d bytes, want %d: %w",
			len(raw), RecipientLen, ErrMalformedClaim)
	}
	copy(out[:], raw)
	return out, nil
}

// FormatRecipient renders a recipient as a bech32 address for display.
func FormatRecipient(rec [RecipientLen]byte) string {
	conv, err := bech32.ConvertBits(rec[:], 8, 5, true)
	if err != nil {
		return hex.EncodeToString(rec[:])
	}
	s, err := bech32.Encode(recipientHRP, conv)
	if err != nil {
		return hex.EncodeToString(rec[:])
	}
	return s
}
