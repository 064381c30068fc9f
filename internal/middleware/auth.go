package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coursehub-dev/coursehub-api/internal/models"
	"github.com/coursehub-dev/coursehub-api/internal/service"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
	"github.com/coursehub-dev/coursehub-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved principal.
const ContextUserKey = "currentUser"

// Auth protects routes by requiring a valid token, delivered either via the
// session cookie or an Authorization bearer header. The resolved principal
// is attached to the request context.
func Auth(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		principal, err := authService.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		c.Next()
	}
}

// PreventIfLoggedIn blocks login/signup for callers that already hold a
// valid token. A corrupted or expired token is ignored and the request
// proceeds.
func PreventIfLoggedIn(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		if _, err := authService.ValidateToken(token); err == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "you are already logged in"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireTeacher rejects principals without a teacher profile.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}
		if !principal.IsTeacher() {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "access denied: teachers only"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Principal returns the principal stored by Auth, or nil.
func Principal(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
