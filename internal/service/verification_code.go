package service

import (
	"crypto/rand"
	"math/big"
)

// codeAlphabet deliberately omits 0/O, 1/I/L and lowercase so codes survive
// being read aloud or typed from a phone screen.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// generateCode produces a short single-use code from crypto/rand. A
// predictable source here would let an attacker confirm registrations or
// resets they never received, so math/rand is not an option.
func generateCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
