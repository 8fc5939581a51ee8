package controller

import (
	"errors"
	"net/http"

	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the typed service errors onto HTTP statuses.
// Anything unrecognized is an infrastructure failure.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrValidation):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrBankItemNotFound),
		errors.Is(err, util.ErrSpecialtyNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrEmptyExam):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, util.ErrAttemptFinalized):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
