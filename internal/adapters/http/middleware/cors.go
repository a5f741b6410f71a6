package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultCORSMaxAge = 12 * time.Hour

// CORS allows the storefront origins to call the API. With no origins
// configured the middleware is a no-op, for same-origin deployments.
func CORS(allowedOrigins []string, maxAge time.Duration) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if maxAge <= 0 {
		maxAge = defaultCORSMaxAge
	}

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return allowed[origin] || allowed["*"] },
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", HeaderRequestID, HeaderCorrelationID},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}
