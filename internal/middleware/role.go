package middleware

import (
	"net/http"

	"hotelfront/internal/domain"
	"hotelfront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if !allowed[role] {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// FrontDesk covers every role that works bookings at the desk.
func FrontDesk() gin.HandlerFunc {
	return RequireRole(domain.RoleBoard, domain.RoleManagement, domain.RoleReception)
}
