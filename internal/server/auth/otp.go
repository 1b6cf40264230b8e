package auth

import (
	"crypto/rand"
	"math/big"
)

// OtpLength is the number of digits in a registration one-time code.
const OtpLength = 6

// GenerateOtp returns a random numeric one-time code of OtpLength digits,
// drawn from crypto/rand. Leading zeros are allowed.
func GenerateOtp() (string, error) {
	digits := make([]byte, OtpLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
