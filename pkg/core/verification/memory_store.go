package verification

import (
	"context"
	"sync"
	"time"

	apperrors "workbuddy-store/pkg/common/errors"
)

type pendingCode struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// MemoryStore is a process-local CodeStore for development and tests.
type MemoryStore struct {
	mu          sync.Mutex
	codes       map[string]*pendingCode
	maxAttempts int
	now         func() time.Time
}

// NewMemoryStore returns an empty store. maxAttempts <= 0 uses DefaultMaxAttempts.
func NewMemoryStore(maxAttempts int) *MemoryStore {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &MemoryStore{
		codes:       map[string]*pendingCode{},
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[normalizeEmail(email)] = &pendingCode{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Check(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	p, ok := s.codes[key]
	if !ok || !s.now().Before(p.expiresAt) {
		delete(s.codes, key)
		return apperrors.ErrCodeExpired
	}

	p.attempts++
	if p.attempts > s.maxAttempts {
		delete(s.codes, key)
		return apperrors.ErrTooManyAttempts
	}
	if !Matches(p.code, code) {
		return apperrors.ErrCodeMismatch
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, normalizeEmail(email))
	return nil
}
