package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// GenerateNumericCode returns a uniformly random decimal code with the given number of digits.
func GenerateNumericCode(digits int) (string, error) {
	var sb strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}
