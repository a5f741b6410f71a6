package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/logging"
)

// ContextKeyPrincipal is the gin context key of the authenticated principal.
const ContextKeyPrincipal = "principal"

// Authenticator resolves a bearer token. app.AuthService implements it.
type Authenticator interface {
	Authenticate(token string) (*domain.Principal, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the principal for handlers.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			dto.Abort(c, dto.ErrorCodeUnauthorized, "authentication required")

			return
		}

		p, err := auth.Authenticate(token)
		if err != nil {
			logging.FromContext(c.Request.Context()).DebugContext(c.Request.Context(), "rejected bearer token",
				slog.String("error", err.Error()))
			c.Header("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
			dto.Abort(c, dto.ErrorCodeUnauthorized, "invalid or expired token")

			return
		}

		c.Set(ContextKeyPrincipal, p)
		c.Next()
	}
}

// RequireRole allows only principals holding role. It must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).HasRole(role) {
			dto.Abort(c, dto.ErrorCodeForbidden, "insufficient permissions: role "+role+" required")
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil.
func GetPrincipal(c *gin.Context) *domain.Principal {
	if v, ok := c.Get(ContextKeyPrincipal); ok {
		if p, ok := v.(*domain.Principal); ok {
			return p
		}
	}

	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
