package refgen

import (
	"bytes"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	fixed := time.Date(2025, 1, 14, 9, 30, 11, 0, time.UTC)
	g := NewWithSource(func() time.Time { return fixed }, bytes.NewReader([]byte{0x4f, 0xa2, 0x1c}))

	ref, err := g.Generate("DEP")
	require.NoError(t, err)
	assert.Equal(t, "DEP-20250114093011-4FA21C", ref)
}

func TestGenerate_MatchesPattern(t *testing.T) {
	g := New()
	pattern := regexp.MustCompile(`^TRF-\d{14}-[0-9A-F]{6}$`)

	for range 100 {
		ref, err := g.Generate("TRF")
		require.NoError(t, err)
		assert.Regexp(t, pattern, ref)
	}
}

func TestAccountNumber_Format(t *testing.T) {
	g := New()
	pattern := regexp.MustCompile(`^SAV-[0-9A-F]{12}$`)

	num, err := g.AccountNumber("SAV")
	require.NoError(t, err)
	assert.Regexp(t, pattern, num)
}

func TestGenerate_ConcurrentUniqueness(t *testing.T) {
	g := New()

	const n = 10_000
	refs := make(chan string, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := g.Generate("REM")
			if err != nil {
				t.Error(err)
				return
			}
			refs <- ref
		}()
	}
	wg.Wait()
	close(refs)

	seen := make(map[string]struct{}, n)
	for ref := range refs {
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference generated: %s", ref)
		}
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, n)
}
