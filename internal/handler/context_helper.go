package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/middleware"
	"github.com/noah-isme/training-crm-api/internal/models"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

func accountFromContext(c *gin.Context) *models.AccountInfo {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return nil
	}
	return account
}

// bindJSON decodes the body and writes a validation error when it is malformed.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// deleteConfirmed reads ?confirm=true. Deletes without it are refused with 428.
func deleteConfirmed(c *gin.Context) bool {
	confirmed, err := strconv.ParseBool(c.DefaultQuery("confirm", "false"))
	return err == nil && confirmed
}
