package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/repository"
)

const (
	// SessionIDKey is the context key for the session identifier.
	SessionIDKey = "session_id"
	// UpstreamTokenKey is the context key for the resolved upstream bearer token.
	UpstreamTokenKey = "upstream_token"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// SessionClaims carries the console session token claims.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// RequireSession validates the console session token and resolves the
// upstream API token for the session. Handlers read the upstream token from
// the context; it is never taken from process-wide state.
func RequireSession(secret string, sessions port.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing session token"))
			return
		}

		claims := &SessionClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session token expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid session token"))
			return
		}

		if claims.SessionID == "" || !domain.Role(claims.Role).Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid session token"))
			return
		}

		upstreamToken, err := sessions.Token(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session expired, sign in again"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authentication failed"))
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(RoleKey, claims.Role)
		c.Set(SessionIDKey, claims.SessionID)
		c.Set(UpstreamTokenKey, upstreamToken)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.Subject
			reqCtx.Role = claims.Role
		}

		c.Next()
	}
}

// RequireRole checks if the authenticated actor has any of the specified roles
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(RoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "invalid role format"))
			return
		}

		for _, required := range roles {
			if domain.Role(role) == required {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorResponse(c, "insufficient permissions"))
	}
}

// GetAuthenticatedUserID retrieves the actor ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}

// GetAuthenticatedRole retrieves the actor role from context.
func GetAuthenticatedRole(c *gin.Context) (domain.Role, bool) {
	roleVal, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}

	if role, ok := roleVal.(string); ok {
		return domain.Role(role), true
	}

	return "", false
}

// GetUpstreamToken retrieves the resolved upstream bearer token from context.
func GetUpstreamToken(c *gin.Context) (string, bool) {
	tokenVal, exists := c.Get(UpstreamTokenKey)
	if !exists {
		return "", false
	}

	if token, ok := tokenVal.(string); ok && token != "" {
		return token, true
	}

	return "", false
}
