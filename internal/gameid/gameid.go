package gameid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length is the number of hex characters in a generated id.
const Length = 6

// RandSource interface for dependency injection of randomness
type RandSource interface {
	Intn(n int) int
}

// Generator produces short hex ids for rooms and players. A nil RandSource
// means crypto/rand; tests inject a deterministic source.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a new generator with optional RandSource
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new id using the default crypto/rand source.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new 6-character lowercase hex id.
func (g *Generator) Generate() string {
	buf := make([]byte, Length/2)
	if g.randSource != nil {
		for i := range buf {
			buf[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(buf); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
	}
	return hex.EncodeToString(buf)
}

// Validate checks that an id is exactly Length lowercase hex characters.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}
	for i, ch := range id {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return fmt.Errorf("invalid character %c at position %d", ch, i)
		}
	}
	return nil
}
