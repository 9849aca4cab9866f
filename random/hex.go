package random

import (
	"crypto/rand"
	"encoding/hex"
)

// String generates a random hex string from n random bytes. Used for
// request identifiers in logs.
func String(n int) string {
	bytes := make([]byte, n)

	_, err := rand.Read(bytes)
	if err != nil {
		panic(err)
	}

	return hex.EncodeToString(bytes)
}
