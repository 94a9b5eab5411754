package prompt

import (
	"crypto/rand"
	"math/big"
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomPassword returns a password of exactly length characters drawn from
// uppercase letters and digits, using the platform CSPRNG.
func RandomPassword(length int) string {
	if length <= 0 {
		return ""
	}
	alphabetLen := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand never fails on supported platforms; treat a
			// broken entropy source as unrecoverable.
			panic(err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf)
}
