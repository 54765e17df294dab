package handlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// respondError maps service errors onto the API error taxonomy. Anything it
// does not recognise is recorded on the context for the access log and
// answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLoginKeyRequired),
		errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrPasswordTooLong),
		errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrTextTooLong),
		errors.Is(err, services.ErrDateRequired),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLoginKeyTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthenticated(c, err.Error())
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case isUnavailable(err):
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// isUnavailable reports store failures that are about reaching the database
// rather than about the request.
func isUnavailable(err error) bool {
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}
