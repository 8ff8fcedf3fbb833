// Package auth implements the client side of the session: the token read
// from the login endpoint, its persistence, its expiry and the guard in front
// of protected views.
//
// The token is never verified here, the backend is the only authority. The
// client only reads the "exp" claim to stop using a dead token and to log out
// at the exact moment it expires.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// State of a session.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used to compute expiry and schedule auto-logout.
func WithClock(c Clock) Option { return func(m *Manager) { m.clock = c } }

// Manager owns the current session token.
//
// The Store is read once by NewManager, from then on the Manager is the
// authority and writes through to the Store on every transition.
// At most one auto-logout timer is armed at any time.
type Manager struct {
	store Store
	clock Clock

	mu    sync.Mutex
	token string
	timer Timer
	gen   uint64 // incremented every time the timer is replaced or cancelled

	subs    map[int]func(State)
	nextSub int
}

// NewManager returns a Manager initialized from the token persisted in store.
//
// A stored token that is expired or unreadable is cleared from the store
// right away, and the Manager starts Anonymous.
func NewManager(ctx context.Context, store Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store: store,
		clock: SystemClock,
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}

	token, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load session: %w", err)
	}
	if token == "" {
		return m, nil
	}
	if m.expired(token) {
		log.Println("stored session token is expired, clearing it")
		if err := store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("cannot clear expired session: %w", err)
		}
		return m, nil
	}

	m.token = token
	if exp, ok := ExpiresAt(token); ok {
		m.armLocked(exp.Sub(m.clock.Now()))
	}
	return m, nil
}

// Token returns the current token, or "" if there is none.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// State returns Authenticated while the Manager holds a token.
func (m *Manager) State() State {
	if m.Token() == "" {
		return Anonymous
	}
	return Authenticated
}

// ExpiresAt returns the expiry of the current token.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}
	return ExpiresAt(token)
}

// IsTokenExpired reports whether there is no usable token: none at all, a
// payload that does not decode, no "exp" claim, or an "exp" already reached.
//
// It never changes the session.
func (m *Manager) IsTokenExpired() bool { return m.expired(m.Token()) }

func (m *Manager) expired(token string) bool {
	if token == "" {
		return true
	}
	exp, ok := ExpiresAt(token)
	if !ok {
		return true
	}
	return expiredAt(exp, m.clock.Now())
}

// Login replaces the current token with token and persists it.
//
// The token is not validated: a malformed token is kept verbatim, reported as
// expired, and never logged out automatically. A token with a future "exp" is
// logged out at that instant, a token already past its "exp" is logged out
// before Login returns.
//
// The session changes even if the store fails, the store error is returned.
func (m *Manager) Login(ctx context.Context, token string) error {
	if token == "" {
		return m.Logout(ctx)
	}

	m.mu.Lock()
	m.token = token
	m.stopLocked()
	var err error
	if serr := m.store.Save(ctx, token); serr != nil {
		err = fmt.Errorf("cannot persist session: %w", serr)
	}

	due := false
	if exp, ok := ExpiresAt(token); ok {
		if d := exp.Sub(m.clock.Now()); d > 0 {
			m.armLocked(d)
		} else {
			due = true
		}
	} else {
		log.Println("session token carries no expiry, it will not be logged out automatically")
	}
	m.mu.Unlock()

	m.notify(Authenticated)
	if due {
		log.Println("session token is already expired, logging out")
		err = errors.Join(err, m.Logout(ctx))
	}
	return err
}

// Logout drops the current token, clears the store and cancels the pending
// auto-logout. It does nothing when the session is already Anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	changed, err := m.logoutLocked(ctx)
	m.mu.Unlock()

	if changed {
		m.notify(Anonymous)
	}
	return err
}

// Unauthorized is called when the backend rejected the token, even if the
// token does not look expired: it might have been revoked.
//
// The store is cleared even when the Manager is already Anonymous, a shared
// store may hold a token written by another process.
func (m *Manager) Unauthorized(ctx context.Context) {
	log.Println("backend rejected the session token, logging out")
	m.mu.Lock()
	changed, err := m.logoutLocked(ctx)
	if !changed && err == nil {
		if err = m.store.Clear(ctx); err != nil {
			err = fmt.Errorf("cannot clear session: %w", err)
		}
	}
	m.mu.Unlock()

	if changed {
		m.notify(Anonymous)
	}
	if err != nil {
		log.Printf("logout after unauthorized response: %v", err)
	}
}

// Subscribe registers fn to be called after every state transition.
// fn is called without any lock held, possibly from the auto-logout goroutine.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(s State) {
	m.mu.Lock()
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (m *Manager) logoutLocked(ctx context.Context) (bool, error) {
	m.stopLocked()
	if m.token == "" {
		return false, nil
	}
	m.token = ""
	if err := m.store.Clear(ctx); err != nil {
		return true, fmt.Errorf("cannot clear session: %w", err)
	}
	return true, nil
}

// armLocked schedules the auto-logout in d. The callback is bound to the
// current generation so that a timer that could not be stopped in time is a
// no-op against a newer session.
func (m *Manager) armLocked(d time.Duration) {
	m.stopLocked()
	gen := m.gen
	m.timer = m.clock.AfterFunc(d, func() { m.expire(gen) })
}

func (m *Manager) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	changed, err := m.logoutLocked(context.Background())
	m.mu.Unlock()

	if err != nil {
		log.Printf("auto-logout: %v", err)
	}
	if changed {
		log.Println("session token expired, logged out")
		m.notify(Anonymous)
	}
}
