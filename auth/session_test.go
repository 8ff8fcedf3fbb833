package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/folio/auth"
	"github.com/etnz/folio/auth/authtest"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, time.October, 3, 12, 0, 0, 0, time.UTC)

// newManager returns a Manager on a virtual clock and a fresh in-memory store.
func newManager(t *testing.T, stored string) (*auth.Manager, *auth.MemoryStore, *authtest.Clock) {
	t.Helper()
	store := &auth.MemoryStore{}
	if stored != "" {
		require.NoError(t, store.Save(context.Background(), stored))
	}
	clock := authtest.NewClock(epoch)
	m, err := auth.NewManager(context.Background(), store, auth.WithClock(clock))
	require.NoError(t, err)
	return m, store, clock
}

func stored(t *testing.T, s auth.Store) string {
	t.Helper()
	token, err := s.Load(context.Background())
	require.NoError(t, err)
	return token
}

// record collects every state notification.
func record(m *auth.Manager) *[]auth.State {
	var states []auth.State
	m.Subscribe(func(s auth.State) { states = append(states, s) })
	return &states
}

func TestIsTokenExpiredWithoutToken(t *testing.T) {
	m, _, _ := newManager(t, "")
	require.True(t, m.IsTokenExpired())
	require.Equal(t, auth.Anonymous, m.State())
}

func TestIsTokenExpiredMalformed(t *testing.T) {
	for _, token := range []string{
		"no-segments",
		"header.!!!.signature",
		authtest.Token(map[string]any{"sub": "no exp"}),
	} {
		t.Run(token, func(t *testing.T) {
			m, store, clock := newManager(t, "")
			require.NoError(t, m.Login(context.Background(), token))

			require.Equal(t, auth.Authenticated, m.State(), "a malformed token is still stored")
			require.Equal(t, token, m.Token())
			require.Equal(t, token, stored(t, store))
			require.True(t, m.IsTokenExpired())
			require.Zero(t, clock.Pending(), "no auto-logout without a usable exp")
		})
	}
}

func TestIsTokenExpiredBoundary(t *testing.T) {
	m, _, clock := newManager(t, "")
	exp := epoch.Add(10 * time.Second)
	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(exp)))

	require.False(t, m.IsTokenExpired())

	clock.Advance(10*time.Second - time.Millisecond)
	require.False(t, m.IsTokenExpired(), "still valid just before exp")
	require.Equal(t, auth.Authenticated, m.State())

	clock.Advance(time.Millisecond)
	require.Equal(t, auth.Anonymous, m.State(), "logged out exactly at exp")
	require.True(t, m.IsTokenExpired())
}

func TestIsTokenExpiredIsPure(t *testing.T) {
	m, store, clock := newManager(t, "")
	token := authtest.Token(map[string]any{"sub": "no exp"})
	require.NoError(t, m.Login(context.Background(), token))
	states := record(m)

	require.True(t, m.IsTokenExpired())
	require.True(t, m.IsTokenExpired())

	require.Equal(t, token, m.Token())
	require.Equal(t, token, stored(t, store))
	require.Empty(t, *states)
	require.Zero(t, clock.Pending())
}

func TestAutoLogout(t *testing.T) {
	m, store, clock := newManager(t, "")
	states := record(m)

	token := authtest.TokenExpiringAt(epoch.Add(time.Second))
	require.NoError(t, m.Login(context.Background(), token))
	require.Equal(t, token, m.Token())
	require.Equal(t, 1, clock.Pending())

	clock.Advance(2 * time.Second)

	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
	require.Zero(t, clock.Pending())
	require.Equal(t, []auth.State{auth.Authenticated, auth.Anonymous}, *states)
}

func TestLoginThenLogout(t *testing.T) {
	m, store, clock := newManager(t, "")
	states := record(m)

	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Minute))))
	require.NoError(t, m.Logout(context.Background()))

	require.Empty(t, stored(t, store))
	require.Zero(t, clock.Pending(), "logout cancels the timer")

	clock.Advance(2 * time.Minute)
	require.Equal(t, []auth.State{auth.Authenticated, auth.Anonymous}, *states, "no delayed logout fires")
}

func TestLoginTwiceRearmsTimer(t *testing.T) {
	m, store, clock := newManager(t, "")

	first := authtest.TokenExpiringAt(epoch.Add(5 * time.Second))
	second := authtest.TokenExpiringAt(epoch.Add(10 * time.Second))
	require.NoError(t, m.Login(context.Background(), first))
	require.NoError(t, m.Login(context.Background(), second))
	require.Equal(t, 1, clock.Pending(), "at most one timer")

	clock.Advance(6 * time.Second)
	require.Equal(t, auth.Authenticated, m.State(), "first timer never fires")
	require.Equal(t, second, m.Token())
	require.Equal(t, second, stored(t, store))

	clock.Advance(4 * time.Second)
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
}

func TestLoginWithLaterTokenFirst(t *testing.T) {
	m, _, clock := newManager(t, "")

	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Hour))))
	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Second))))

	clock.Advance(time.Second)
	require.Equal(t, auth.Anonymous, m.State(), "the second token's expiry wins")
	clock.Advance(time.Hour)
	require.Zero(t, clock.Pending())
}

func TestLoginExpiredTokenLogsOutImmediately(t *testing.T) {
	m, store, clock := newManager(t, "")
	states := record(m)

	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(-time.Minute))))

	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
	require.Zero(t, clock.Pending())
	require.Equal(t, []auth.State{auth.Authenticated, auth.Anonymous}, *states)
}

func TestLoginTokenExpiringNow(t *testing.T) {
	m, _, _ := newManager(t, "")
	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch)))
	require.Equal(t, auth.Anonymous, m.State(), "exp == now counts as expired")
}

func TestLoginEmptyTokenLogsOut(t *testing.T) {
	m, store, _ := newManager(t, authtest.TokenExpiringAt(epoch.Add(time.Hour)))
	require.Equal(t, auth.Authenticated, m.State())

	require.NoError(t, m.Login(context.Background(), ""))
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
}

func TestLogoutIsIdempotent(t *testing.T) {
	m, store, _ := newManager(t, "")
	states := record(m)

	require.NotPanics(t, func() {
		require.NoError(t, m.Logout(context.Background()))
		require.NoError(t, m.Logout(context.Background()))
	})
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
	require.Empty(t, *states, "no transition, no notification")
}

func TestStartupWithoutToken(t *testing.T) {
	m, _, clock := newManager(t, "")
	require.Equal(t, auth.Anonymous, m.State())
	require.Zero(t, clock.Pending())
	require.Equal(t, "login", auth.Route(context.Background(), m, "dates", "login"))
}

func TestStartupWithValidToken(t *testing.T) {
	token := authtest.TokenExpiringAt(epoch.Add(30 * time.Second))
	m, store, clock := newManager(t, token)

	require.Equal(t, auth.Authenticated, m.State())
	require.Equal(t, token, m.Token())
	require.Equal(t, 1, clock.Pending(), "a restored session is logged out at its expiry too")
	require.Equal(t, "dates", auth.Route(context.Background(), m, "dates", "login"))

	exp, ok := m.ExpiresAt()
	require.True(t, ok)
	require.Equal(t, epoch.Add(30*time.Second).Unix(), exp.Unix())

	clock.Advance(30 * time.Second)
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
}

func TestStartupWithExpiredToken(t *testing.T) {
	m, store, clock := newManager(t, authtest.TokenExpiringAt(epoch.Add(-time.Second)))

	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store), "the dead token is cleared before any view renders")
	require.Zero(t, clock.Pending())
}

func TestStartupWithMalformedToken(t *testing.T) {
	m, store, _ := newManager(t, "garbage")
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
}

type failingStore struct {
	auth.MemoryStore
	err error
}

func (s *failingStore) Save(context.Context, string) error { return s.err }
func (s *failingStore) Clear(context.Context) error        { return s.err }

func TestStoreErrorsDoNotBlockTransitions(t *testing.T) {
	boom := errors.New("disk full")
	store := &failingStore{err: boom}
	m, err := auth.NewManager(context.Background(), store, auth.WithClock(authtest.NewClock(epoch)))
	require.NoError(t, err)

	err = m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Hour)))
	require.ErrorIs(t, err, boom)
	require.Equal(t, auth.Authenticated, m.State())

	err = m.Logout(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, auth.Anonymous, m.State())
}

func TestUnauthorizedLogsOutValidToken(t *testing.T) {
	m, store, clock := newManager(t, "")
	states := record(m)
	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Hour))))
	require.False(t, m.IsTokenExpired())

	m.Unauthorized(context.Background())

	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store))
	require.Zero(t, clock.Pending())
	require.Equal(t, []auth.State{auth.Authenticated, auth.Anonymous}, *states)

	m.Unauthorized(context.Background())
	require.Len(t, *states, 2, "a second 401 changes nothing")
}

func TestUnauthorizedClearsSharedStore(t *testing.T) {
	m, store, _ := newManager(t, "")
	states := record(m)
	// written by another process sharing the store.
	require.NoError(t, store.Save(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Hour))))

	m.Unauthorized(context.Background())

	require.Empty(t, stored(t, store))
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, *states, "already anonymous, no transition")
}

func TestSubscribeCancel(t *testing.T) {
	m, _, _ := newManager(t, "")
	var calls int
	cancel := m.Subscribe(func(auth.State) { calls++ })

	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Hour))))
	cancel()
	require.NoError(t, m.Logout(context.Background()))

	require.Equal(t, 1, calls)
}

func TestAdmitPurgesDeadToken(t *testing.T) {
	m, store, _ := newManager(t, "")
	token := authtest.Token(map[string]any{"sub": "no exp"})
	require.NoError(t, m.Login(context.Background(), token))
	require.Equal(t, token, stored(t, store))

	require.False(t, m.Admit(context.Background()))
	require.Equal(t, auth.Anonymous, m.State())
	require.Empty(t, stored(t, store), "logout runs before the redirect")
}

func TestAdmitRunsOnEveryRender(t *testing.T) {
	m, _, clock := newManager(t, "")
	require.NoError(t, m.Login(context.Background(), authtest.TokenExpiringAt(epoch.Add(time.Minute))))

	require.True(t, m.Admit(context.Background()))
	clock.Advance(time.Minute)
	require.False(t, m.Admit(context.Background()))
	require.Equal(t, "login", auth.Route(context.Background(), m, "prices", "login"))
}
