package middleware

import (
	"net/http"
	"strings"

	"hotelfront/internal/domain"
	"hotelfront/internal/pkg/jwt"
	"hotelfront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxUserName = "user_name"
	ctxRole     = "role"
)

// JWTAuth authenticates staff requests. The token comes from the
// Authorization header, or from the access_token query parameter for
// websocket upgrades that cannot set headers.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserName, claims.Name)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := strings.TrimSpace(c.Query("access_token")); q != "" {
			return q, true
		}
		response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
		return "", false
	}
	return parts[1], true
}

// ActorFrom returns the authenticated staff member set by JWTAuth.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   c.GetInt64(ctxUserID),
		Name: c.GetString(ctxUserName),
		Role: domain.UserRole(c.GetString(ctxRole)),
	}
}
