package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Trace-ID"
	corsMaxAge       = "86400"
)

// CORS answers browser preflights and stamps allow-origin headers. The
// console UI is served from a separate origin, so every API route needs the
// headers; allowed origins come from per-environment config, with "*"
// meaning any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		if origin := c.Request.Header.Get("Origin"); origin != "" {
			switch {
			case wildcard:
				c.Header("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowed[origin]; ok {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
				}
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
