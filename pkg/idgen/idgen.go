// Package idgen issues lexicographically sortable identifiers.
//
// Ids are ULIDs drawn from a monotonic entropy source, so an id generated
// later always sorts after one generated earlier, even within the same
// millisecond. Task listings rely on this to page by id.
package idgen

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalid reports a malformed id.
var ErrInvalid = errors.New("idgen: invalid id")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh id stamped with the current UTC time.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt returns an id stamped with t. Useful in tests that need a known order.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Validate checks that s is a canonical id.
func Validate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return ErrInvalid
	}
	return nil
}

// Time extracts the timestamp embedded in id, or the zero time when id is
// not valid.
func Time(id string) time.Time {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
