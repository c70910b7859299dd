package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rescuenet/rescuenet-api/pkg/auth"
	apperrors "github.com/rescuenet/rescuenet-api/pkg/errors"
	"github.com/rescuenet/rescuenet-api/pkg/httputil"
)

// Context keys set by Authenticate.
const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRole   = "user_role"
)

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate verifies the bearer token and stores the caller identity in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("Unauthenticated."))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, apperrors.Unauthorized("Unauthenticated."))
			return
		}

		claims, err := m.jwt.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, apperrors.Unauthorized("Unauthenticated."))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of roles.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, apperrors.Forbidden("This action is unauthorized."))
	}
}

// UserID returns the authenticated caller, or 0 outside an authenticated route.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}

func abort(c *gin.Context, err error) {
	httputil.RespondWithError(c, err)
	c.Abort()
}
