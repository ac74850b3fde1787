// Package otp generates short numeric one-time passcodes for the password
// recovery flow.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a recovery code.
const CodeLength = 6

// Generate returns a code of length digits, each drawn independently from
// '1'..'9'. The zero digit is excluded so codes are never misread as having
// a leading-zero prefix stripped. Randomness comes from crypto/rand.
func Generate(length int) (string, error) {
	nine := big.NewInt(9)

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, nine)
		if err != nil {
			return "", fmt.Errorf("generating otp digit: %w", err)
		}
		code[i] = byte('1' + n.Int64())
	}

	return string(code), nil
}
