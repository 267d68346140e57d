package claim

import (
	"hash"

	blake2b "github.com/minio/blake2b-simd"
)

// digestPersonalization tags the claim digest domain, BLAKE2b style: the
// personalization is a hash parameter, not a key.
const digestPersonalization = "ZecNamClaimHash_"

// Digest returns the BLAKE2b-256 identifier of a claim's canonical
// encoding, used for display and wallet transaction records. It is not part
// of the verified statement.
func (tx *ClaimTransaction) Digest() ([HashLen]byte, error) {
	var out [HashLen]byte
	data, err := Encode(tx)
	if err != nil {
		return out, err
	}
	h := newDigestHasher()
	h.Write(data)
	copy(out[:], h.Sum(nil))
	return out, nil
}

func newDigestHasher() hash.Hash {
	h, err := blake2b.New(&blake2b.Config{
		Size:   HashLen,
		Person: []byte(digestPersonalization),
	})
	if err != nil {
		panic(err) // static config
	}
	return h
}
