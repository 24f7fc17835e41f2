// Package threadid generates sortable 26-character thread identifiers.
package threadid

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropyMu   sync.Mutex
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns a fresh thread ULID. The 48-bit millisecond timestamp keeps ids
// lexicographically ordered by creation time; the 80-bit random suffix makes
// same-millisecond collisions negligible but not impossible.
func New() (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), newEntropy())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsValid reports whether the string parses as a thread ULID.
func IsValid(value string) bool {
	_, err := ulid.ParseStrict(value)
	return err == nil
}

// Timestamp extracts the creation time encoded in the id.
func Timestamp(value string) (time.Time, error) {
	id, err := ulid.ParseStrict(value)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(id.Time()), nil
}
