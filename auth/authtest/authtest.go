// Package authtest provides utilities for testing code built on package auth:
// a manually advanced Clock and unsigned tokens with a chosen expiry.
package authtest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/etnz/folio/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Clock is an auth.Clock whose time only moves when Advance is called.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

// NewClock returns a Clock set to now.
func NewClock(now time.Time) *Clock { return &Clock{now: now} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to be called by Advance once d has elapsed.
func (c *Clock) AfterFunc(d time.Duration, f func()) auth.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of scheduled calls that have not fired nor been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing due calls in order, each one
// with the clock set to its due time.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].at.Equal(c.timers[j].at) {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].at.Before(c.timers[j].at)
		})
		if len(c.timers) == 0 || c.timers[0].at.After(end) {
			c.now = end
			c.mu.Unlock()
			return
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		if t.at.After(c.now) {
			c.now = t.at
		}
		c.mu.Unlock()

		t.f()
	}
}

type timer struct {
	clock *Clock
	at    time.Time
	seq   int
	f     func()
}

func (t *timer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, x := range c.timers {
		if x == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Token returns an unsigned token ("alg": "none") whose payload carries claims.
func Token(claims map[string]any) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims(claims)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		panic(fmt.Sprintf("authtest: cannot encode claims %v: %v", claims, err))
	}
	return token
}

// TokenExpiringAt returns an unsigned token whose "exp" claim is exp.
func TokenExpiringAt(exp time.Time) string {
	return Token(map[string]any{"sub": "tester", "exp": exp.Unix()})
}
