package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation = errors.New("validation error")

	ErrPollNotFound      = errors.New("poll not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")

	ErrPollNotActive     = errors.New("poll is not currently active")
	ErrCandidateMismatch = errors.New("candidate does not belong to the specified position")
	ErrDuplicateVote     = errors.New("voter has already voted for this position")

	ErrResultsNotYetAvailable = errors.New("results are only available after the poll has ended")
	ErrPollFinalized          = errors.New("poll results are already finalized")
	ErrPollNotEnded           = errors.New("poll has not ended yet")

	ErrSchedulingUnavailable = errors.New("results scheduling unavailable")
)

// NotEndedError is returned by the finalizer when a job fires before the
// poll's current end time, e.g. after its duration was extended.
type NotEndedError struct {
	PollID int64
	EndsAt time.Time
}

func (e *NotEndedError) Error() string {
	return fmt.Sprintf("poll %d ends at %s: %s", e.PollID, e.EndsAt.Format(time.RFC3339), ErrPollNotEnded)
}

func (e *NotEndedError) Is(target error) bool {
	return target == ErrPollNotEnded
}
