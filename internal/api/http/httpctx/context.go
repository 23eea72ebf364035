package httpctx

import (
	"context"

	"github.com/credisim/credisim-server/internal/model"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "access_token"

type ctxKey int

const identityKey ctxKey = iota

// Manager stores and retrieves the authenticated identity on request
// contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the identity set by the authentication
// middleware. The boolean reports whether one was present.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
