// Package otp implements the email-channel one-time-password engine. Codes
// live in process memory only: a restart clears every pending code.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"jobboard/pkg/utils"
)

const (
	codeTTL     = 5 * time.Minute
	maxAttempts = 5
)

var ErrEmailRequired = errors.New("email required")

type pendingCode struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// Store holds at most one pending code per normalized email.
type Store struct {
	mu      sync.Mutex
	pending map[string]*pendingCode
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		pending: make(map[string]*pendingCode),
		now:     time.Now,
	}
}

// Create generates a fresh 6-digit code for the email, replacing any
// previously pending one. The caller is responsible for delivering the code;
// it is never exposed anywhere else.
func (s *Store) Create(email string) (string, time.Time, error) {
	normalized := utils.NormalizeEmail(email)
	if normalized == "" {
		return "", time.Time{}, ErrEmailRequired
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	expiresAt := s.now().Add(codeTTL)

	s.mu.Lock()
	s.pending[normalized] = &pendingCode{code: code, expiresAt: expiresAt}
	s.mu.Unlock()

	return code, expiresAt, nil
}

// Verify consumes the pending code for the email. It reports false when no
// code is pending, the code expired (the record is purged), or the submitted
// code mismatches; five failed attempts purge the record so a new code must
// be requested. A correct code verifies exactly once.
func (s *Store) Verify(email, submitted string) bool {
	normalized := utils.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.pending[normalized]
	if !ok {
		return false
	}

	if s.now().After(record.expiresAt) {
		delete(s.pending, normalized)
		return false
	}

	if record.code != submitted {
		record.attempts++
		if record.attempts >= maxAttempts {
			delete(s.pending, normalized)
		}
		return false
	}

	delete(s.pending, normalized)
	return true
}
