package identity

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digestSize keeps hashed identities short enough to stay readable in graph
// browsers while remaining collision-free for realistic account universes.
const digestSize = 12

// HashID maps a raw account reference to its stable anonymized identity.
// The mapping is a pure function of the input; no reverse mapping exists.
func HashID(raw string) string {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		// digestSize is a valid constant, New cannot fail here.
		panic(err)
	}
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
