package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

// RequireRoles lets the request through only when the signed-in account holds one of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[account.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only the director can manage staff accounts"))
			c.Abort()
			return
		}
		c.Next()
	}
}
