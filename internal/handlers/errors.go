package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"

	"github.com/14kear/online-polls/internal/services"
)

// Machine-readable error kinds returned in the "error" field.
const (
	KindValidation             = "ValidationError"
	KindPollNotFound           = "PollNotFound"
	KindPositionNotFound       = "PositionNotFound"
	KindCandidateNotFound      = "CandidateNotFound"
	KindPollNotActive          = "PollNotActive"
	KindCandidateMismatch      = "CandidateMismatch"
	KindDuplicateVote          = "DuplicateVote"
	KindResultsNotYetAvailable = "ResultsNotYetAvailable"
	KindPollFinalized          = "PollFinalized"
	KindInternal               = "InternalError"
)

type apiError struct {
	status int
	kind   string
}

var errorKinds = []struct {
	target error
	apiError
}{
	{services.ErrValidation, apiError{http.StatusBadRequest, KindValidation}},
	{services.ErrPollNotActive, apiError{http.StatusBadRequest, KindPollNotActive}},
	{services.ErrCandidateMismatch, apiError{http.StatusBadRequest, KindCandidateMismatch}},
	{services.ErrDuplicateVote, apiError{http.StatusBadRequest, KindDuplicateVote}},
	{services.ErrPositionNotFound, apiError{http.StatusBadRequest, KindPositionNotFound}},
	{services.ErrCandidateNotFound, apiError{http.StatusBadRequest, KindCandidateNotFound}},
	{services.ErrPollNotFound, apiError{http.StatusNotFound, KindPollNotFound}},
	{services.ErrResultsNotYetAvailable, apiError{http.StatusForbidden, KindResultsNotYetAvailable}},
	{services.ErrPollFinalized, apiError{http.StatusConflict, KindPollFinalized}},
}

func classify(err error) apiError {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.apiError
		}
	}
	return apiError{http.StatusInternalServerError, KindInternal}
}

func (v *VotingHandler) writeError(c *gin.Context, err error) {
	e := classify(err)
	if e.status == http.StatusInternalServerError {
		v.log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			sl.Err(err),
		)
		c.JSON(e.status, gin.H{"error": e.kind, "message": "internal error"})
		return
	}

	c.JSON(e.status, gin.H{"error": e.kind, "message": messageFor(err)})
}

// messageFor returns the sentinel text for a known kind. Validation errors
// keep their detail.
func messageFor(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			if k.target == services.ErrValidation {
				return err.Error()
			}
			return k.target.Error()
		}
	}
	return err.Error()
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": message})
}
