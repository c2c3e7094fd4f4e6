package handlers

import (
	"errors"
	"net/http"

	"card-casino-go/internal/models"
	"card-casino-go/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps a sentinel to an HTTP status and a message that is safe to show. Unknown
// errors map to 500 with ok=false.
func statusFor(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, models.ErrInvalidJSON):
		return http.StatusBadRequest, "invalid json", true
	case errors.Is(err, models.ErrUnknownGame):
		return http.StatusBadRequest, "unknown game", true
	// Checked before ErrInvalidBet: a bet during a live round is a conflict, not bad input.
	case errors.Is(err, models.ErrOperationInFlight),
		errors.Is(err, models.ErrWrongGame),
		errors.Is(err, models.ErrIllegalTransition):
		return http.StatusConflict, session.ErrorMessage(err), true
	case errors.Is(err, models.ErrInvalidBet),
		errors.Is(err, models.ErrInvalidSelection),
		errors.Is(err, models.ErrInvalidDirection):
		return http.StatusBadRequest, session.ErrorMessage(err), true
	case errors.Is(err, models.ErrDeckUnavailable):
		return http.StatusServiceUnavailable, session.ErrorMessage(err), true
	case errors.Is(err, models.ErrDrawFailed):
		return http.StatusBadGateway, session.ErrorMessage(err), true
	}
	return http.StatusInternalServerError, "internal server error", false
}

func writeAPIError(c *gin.Context, err error) {
	status, msg, ok := statusFor(err)
	if !ok {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("internal error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// writeResult answers an engine operation. Failures still carry the session's committed state
// so clients can redraw without a second request.
func writeResult(c *gin.Context, snap session.Snapshot, err error) {
	if err == nil {
		c.JSON(http.StatusOK, snap)
		return
	}
	status, msg, ok := statusFor(err)
	if !ok {
		logrus.WithError(err).WithField("session_id", snap.SessionID).Error("internal error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "state": snap})
}
