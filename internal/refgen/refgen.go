// Package refgen produces human-legible correlation identifiers for money
// movement operations. References are collision-resistant but advisory:
// surrogate ids remain the real keys.
package refgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

type Generator struct {
	now  func() time.Time
	rand io.Reader
}

func New() *Generator {
	return &Generator{now: time.Now, rand: rand.Reader}
}

// NewWithSource injects the clock and random source, for tests.
func NewWithSource(now func() time.Time, r io.Reader) *Generator {
	return &Generator{now: now, rand: r}
}

// Generate returns "PREFIX-YYYYMMDDHHMMSS-XXXXXX" with a 6-char uppercase
// hex suffix, e.g. "DEP-20250114093011-4FA21C".
func (g *Generator) Generate(prefix string) (string, error) {
	suffix, err := g.randomHex(3)
	if err != nil {
		return "", fmt.Errorf("Generate: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, g.now().UTC().Format("20060102150405"), suffix), nil
}

// AccountNumber returns "PREFIX-XXXXXXXXXXXX" with a 12-char uppercase hex
// suffix, used for accounts opened by onboarding flows.
func (g *Generator) AccountNumber(prefix string) (string, error) {
	suffix, err := g.randomHex(6)
	if err != nil {
		return "", fmt.Errorf("AccountNumber: %w", err)
	}
	return fmt.Sprintf("%s-%s", prefix, suffix), nil
}

func (g *Generator) randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("randomHex: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
