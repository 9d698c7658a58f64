// Package random generates identifiers that must not be guessable, such as CSP nonces.
package random

import (
	"crypto/rand"
	"math/big"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n letters drawn uniformly from a-z and A-Z using crypto/rand.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	limit := big.NewInt(int64(len(allowedLetters)))
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}
