package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/lib/jwt"
)

const identityKey = "identity"

type AuthMiddleware struct {
	log    *slog.Logger
	secret string
}

func NewAuthMiddleware(log *slog.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log, secret: secret}
}

// Middleware authenticates the bearer access token and stores the caller's
// identity in the gin context.
func (m *AuthMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractTokenFromHeader(c.GetHeader("Authorization"))
		if accessToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "missing access token"})
			return
		}

		identity, err := jwt.ParseAccessToken(accessToken, m.secret)
		if err != nil {
			m.log.Debug("access token rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "invalid access token"})
			return
		}

		c.Set(identityKey, identity)
		c.Set("userID", identity.UserID)
		c.Set("userEmail", identity.Email)
		c.Next()
	}
}

// RequireCapability lets the request through only if the authenticated
// identity's role grants capability.
func RequireCapability(capability entity.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "unauthorized"})
			return
		}
		if !identity.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "role " + string(identity.Role) + " lacks capability " + string(capability),
			})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return entity.Identity{}, false
	}
	identity, ok := v.(entity.Identity)
	return identity, ok
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
