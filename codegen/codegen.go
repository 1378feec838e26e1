// Package codegen generates random short codes for links.
// Generators are safe for concurrent use.
package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// Base62 is the default alphabet for short codes.
const Base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator generates short codes of a fixed length.
type Generator interface {
	Generate(length int) (string, error)
}

type alphabetGenerator struct {
	alphabet string
	// bytes >= limit are rejected so every symbol is equally likely
	limit int
}

// NewBase62 returns a generator over the base62 alphabet.
func NewBase62() Generator {
	g, _ := New(Base62)
	return g
}

// New returns a generator drawing characters from alphabet.
// The alphabet must hold at least 2 distinct URL-unreserved characters
// (letters, digits, '-', '_', '.', '~').
func New(alphabet string) (Generator, error) {
	if err := ValidateAlphabet(alphabet); err != nil {
		return nil, err
	}
	return &alphabetGenerator{
		alphabet: alphabet,
		limit:    256 - 256%len(alphabet),
	}, nil
}

// ValidateAlphabet checks that alphabet can be used by New.
func ValidateAlphabet(alphabet string) error {
	if len(alphabet) < 2 {
		return errors.New("alphabet must contain at least 2 characters")
	}
	var seen [256]bool
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if !isUnreserved(c) {
			return fmt.Errorf("alphabet contains character %q that is not URL-safe", c)
		}
		if seen[c] {
			return fmt.Errorf("alphabet contains duplicate character %q", c)
		}
		seen[c] = true
	}
	return nil
}

// Generate returns a random string of the given length.
func (g *alphabetGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= g.limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%len(g.alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}
