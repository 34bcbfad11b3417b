package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

// RequireRoles admits only users holding one of roles. Tokens without a
// role are treated as staff.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			role = models.DefaultRole
		}
		if _, ok := allowed[role]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
