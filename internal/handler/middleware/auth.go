package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/jwt"
)

type AuthMiddleware struct {
	jwtService *jwt.Service
}

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "user_role"
)

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireLibrarian must run after RequireAuth.
func (m *AuthMiddleware) RequireLibrarian() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsLibrarian(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Librarian access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(ctxUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func GetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// IsLibrarian reports whether the authenticated caller is staff. Any role
// other than the subscriber actor is a librarian's name.
func IsLibrarian(c *gin.Context) bool {
	role, ok := GetRole(c)
	return ok && role != subscriber.ActorSelf
}
