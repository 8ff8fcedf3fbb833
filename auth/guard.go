package auth

import (
	"context"
	"log"
)

// Admit reports whether a protected view may be rendered.
//
// When it may not, any token still held is dropped first, so that the store
// never keeps a token known to be dead while the user is sent to login.
// It is meant to run on every render, not once.
func (m *Manager) Admit(ctx context.Context) bool {
	if !m.IsTokenExpired() {
		return true
	}
	if err := m.Logout(ctx); err != nil {
		log.Printf("purging dead session: %v", err)
	}
	return false
}

// Route returns view if the session admits it, login otherwise.
func Route[V any](ctx context.Context, m *Manager, view, login V) V {
	if m.Admit(ctx) {
		return view
	}
	return login
}
