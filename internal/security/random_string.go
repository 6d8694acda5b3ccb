package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	tokenIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenIDLength   = 16
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// NewTokenID returns a random lowercase identifier for the jti claim of a device token.
func NewTokenID() (string, error) {
	return RandomString(tokenIDLength, tokenIDAlphabet)
}

// RandomString draws each character uniformly from alphabet using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}
