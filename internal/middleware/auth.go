package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saloonly/booking-api/pkg/auth"
)

const contextUserID = "user_id"

// AuthMiddleware resolves the caller's identity from a bearer token. The
// engine only needs "caller is user X or a guest"; authorization beyond
// that lives elsewhere.
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate requires a valid bearer token and stores the user id in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.identify(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "unauthorized", "message": err.Error()},
			})
			return
		}
		c.Set(contextUserID, userID)
		c.Next()
	}
}

// Optional resolves the identity when a token is present but lets
// anonymous requests through; guest flows rely on it.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := m.identify(c); err == nil {
			c.Set(contextUserID, userID)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) identify(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, fmt.Errorf("missing authorization header")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, fmt.Errorf("invalid authorization format")
	}
	return m.tokens.Verify(parts[1])
}

// UserID returns the authenticated user id stored by Authenticate or
// Optional, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(contextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
