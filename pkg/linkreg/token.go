package linkreg

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// urlIDAlphabet has exactly 64 symbols, so each random byte maps uniformly onto
// it. 15 characters gives a ~2^90 keyspace; tokens are statistically unique and
// no uniqueness check is made against existing tokens.
const urlIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

const urlIDLength = 15

// GenerateURLID returns a random url id for a sharing link.
func GenerateURLID() (string, error) {
	buf := make([]byte, urlIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "unable to generate url id")
	}

	for i, b := range buf {
		buf[i] = urlIDAlphabet[int(b)%len(urlIDAlphabet)]
	}

	return string(buf), nil
}
