// Package session keeps the registration wizards of in-flight sign-ups.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"

	"workbuddy-store/pkg/core/registration"
	"workbuddy-store/pkg/core/user/service"
)

var (
	ErrSessionNotFound = errors.New("session: not found or expired")
	// ErrNotRegistered is returned when the session has no account yet.
	ErrNotRegistered = errors.New("session: no account registered")
)

// Accounts is the part of the user service a registration session needs.
type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) error
	UpdateRegistration(ctx context.Context, currentEmail string, in service.RegisterInput) error
	VerifyEmail(ctx context.Context, email, code string) error
	ResendCode(ctx context.Context, email string) error
}

// Session is one wizard plus the account it created.
type Session struct {
	ID     string
	Wizard *registration.Wizard

	identity *boundIdentity
	scrolls  atomic.Int64
	lastSeen atomic.Int64
}

// Email returns the address registered through this session, if any.
func (s *Session) Email() string {
	return s.identity.registeredEmail()
}

// Scrolls counts how often the wizard asked the page to return to the top.
func (s *Session) Scrolls() int64 {
	return s.scrolls.Load()
}

// ResendCode sends a fresh code to the account of this session.
func (s *Session) ResendCode(ctx context.Context) error {
	email := s.Email()
	if email == "" {
		return ErrNotRegistered
	}
	return s.identity.accounts.ResendCode(ctx, email)
}

func (s *Session) ScrollToTop() {
	s.scrolls.Add(1)
}

func (s *Session) Navigate(path string, state registration.NavigationState) {
	hlog.Infof("session %s: navigate path=%s email=%s", s.ID, path, state.Email)
}

// boundIdentity remembers the e-mail of the account once it is created so the
// code entered on the last step can be checked against it.
type boundIdentity struct {
	accounts Accounts

	mu    sync.Mutex
	email string
}

// RegisterAndLogin creates the account on the first submit. Later submits,
// after going back from the verification step, rewrite that same account.
func (b *boundIdentity) RegisterAndLogin(ctx context.Context, r registration.Registration) error {
	in := service.RegisterInput{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
		Address:     r.Address,
		Birthday:    r.Birthday,
	}

	var err error
	if current := b.registeredEmail(); current != "" {
		err = b.accounts.UpdateRegistration(ctx, current, in)
	} else {
		err = b.accounts.Register(ctx, in)
	}
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.email = r.Email
	b.mu.Unlock()
	return nil
}

func (b *boundIdentity) VerifyEmailCode(ctx context.Context, code string) error {
	email := b.registeredEmail()
	if email == "" {
		return ErrNotRegistered
	}
	return b.accounts.VerifyEmail(ctx, email, code)
}

func (b *boundIdentity) registeredEmail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.email
}

// Store is an in-memory registry of sessions. Idle sessions expire after ttl
// and are dropped on the next Create.
type Store struct {
	accounts Accounts
	ttl      time.Duration
	opts     []registration.Option
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(accounts Accounts, ttl time.Duration, opts ...registration.Option) *Store {
	return &Store{
		accounts: accounts,
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new wizard on its first step.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		identity: &boundIdentity{accounts: s.accounts},
	}
	opts := append([]registration.Option{registration.WithViewport(sess)}, s.opts...)
	sess.Wizard = registration.New(sess.identity, sess, opts...)
	sess.lastSeen.Store(s.now().UnixNano())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.expired(sess) {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen.Store(s.now().UnixNano())
	return sess, nil
}

// Len returns the number of tracked sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(time.Unix(0, sess.lastSeen.Load())) > s.ttl
}

// sweep drops expired sessions. The caller holds the write lock.
func (s *Store) sweep() {
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}
