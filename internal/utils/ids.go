package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const idAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"

func randomChars(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		r, err := rand.Int(rand.Reader, max)
		if err != nil {
			// only fails when the platform entropy source is broken
			panic(err)
		}
		buf[i] = idAlphabet[r.Int64()]
	}
	return string(buf)
}

// GenerateOrderSetID returns the 8-char id shared by all order lines
// created in one checkout. Uniqueness is enforced by the orders table
// index; callers retry on a unique violation.
func GenerateOrderSetID() string {
	return randomChars(8)
}

// GenerateSampleOrderID returns a sample-shipment id of the form
// SKXXXXXX-4XXX.
func GenerateSampleOrderID() string {
	return fmt.Sprintf("SK%s-4%s", randomChars(6), randomChars(3))
}
