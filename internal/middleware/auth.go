package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
	"github.com/noah-isme/training-crm-api/pkg/logger"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

// ContextAccountKey is the gin context key storing the signed-in account.
const ContextAccountKey = "currentAccount"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AccountInfo, error)
}

// Auth protects routes by requiring a bearer token bound to the live session.
func Auth(auth authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or malformed authorization header"))
			c.Abort()
			return
		}

		account, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAccountKey, account)
		c.Set(logger.AccountIDKey, account.ID)
		c.Next()
	}
}

// CurrentAccount returns the account attached by Auth.
func CurrentAccount(c *gin.Context) (*models.AccountInfo, bool) {
	value, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil, false
	}
	account, ok := value.(*models.AccountInfo)
	return account, ok && account != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
