package middleware

import (
	"net/http"

	"github.com/credisim/credisim-server/internal/api/http/httpctx"
	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
)

// Authenticate validates the session cookie and injects the identity into
// the request context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid session cookie.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(httpctx.SessionCookieName)
		if err != nil {
			http.Error(w, "Access not authorized", http.StatusUnauthorized)
			return
		}

		identity, err := m.tokenManager.ParseSessionToken(cookie.Value)
		if err != nil {
			m.logger.Debug("authenticate middleware: token rejected",
				"error", err.Error())
			http.Error(w, "Access not authorized", http.StatusUnauthorized)
			return
		}

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
