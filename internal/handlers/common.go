// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/middleware"
	"github.com/javajoker/fragrance-catalog/internal/services"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

// bindAndValidate decodes the JSON body into req and runs the struct rules,
// writing the 400 response itself when either step fails.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}

	return true
}

func parseID(c *gin.Context, invalidKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, invalidKey), nil)
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto the error envelope. Anything
// unrecognised is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrValidation):
		reason := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeyValidationFailed), reason)
	case errors.Is(err, services.ErrFragranceNotFound):
		utils.NotFoundResponse(c, i18n.KeyFragranceNotFound)
	case errors.Is(err, services.ErrReviewNotFound):
		utils.NotFoundResponse(c, i18n.KeyReviewNotFound)
	case errors.Is(err, services.ErrPriceNotFound):
		utils.NotFoundResponse(c, i18n.KeyPriceNotFound)
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, i18n.KeyUserNotFound)
	case errors.Is(err, services.ErrNotReviewOwner):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyReviewNotOwner))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrUsernameTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrCreateFailed):
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFragranceCreateFailed))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": middleware.GetRequestID(c),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}
