package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateOTP creates a numeric code of the given length from crypto/rand.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String()
}
