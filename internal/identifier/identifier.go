// Package identifier mints the short random correlation tags that link a
// pushed item to its later pull.
package identifier

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	Prefix    = "test-"
	TagLength = 5
)

// New returns a tag of the form "test-<5 alphanumerics>". Collisions across
// calls are possible; the randomness only has to make them unlikely.
func New() (string, error) {
	buf := make([]byte, TagLength)
	limit := big.NewInt(int64(len(alphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}

	return Prefix + string(buf), nil
}
