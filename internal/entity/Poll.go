package entity

import "time"

type PollStatus string

const (
	PollStatusUpcoming PollStatus = "Upcoming"
	PollStatusActive   PollStatus = "Active"
	PollStatusEnded    PollStatus = "Ended"
)

type Poll struct {
	ID            int64
	Title         string
	Description   string
	StartTime     time.Time
	DurationHours int
	FinalizedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Positions     []Position
}

// EndTime returns start time plus duration. ok is false when either is unset,
// such a poll can never become active.
func (p Poll) EndTime() (end time.Time, ok bool) {
	if p.StartTime.IsZero() || p.DurationHours <= 0 {
		return time.Time{}, false
	}
	return p.StartTime.Add(time.Duration(p.DurationHours) * time.Hour), true
}

// IsActive reports whether now lies in the inclusive window [start, end].
func (p Poll) IsActive(now time.Time) bool {
	end, ok := p.EndTime()
	if !ok {
		return false
	}
	return !now.Before(p.StartTime) && !now.After(end)
}

func (p Poll) HasEnded(now time.Time) bool {
	end, ok := p.EndTime()
	if !ok {
		return false
	}
	return now.After(end)
}

func (p Poll) Status(now time.Time) PollStatus {
	switch {
	case p.IsActive(now):
		return PollStatusActive
	case p.HasEnded(now):
		return PollStatusEnded
	default:
		return PollStatusUpcoming
	}
}

func (p Poll) IsFinalized() bool {
	return p.FinalizedAt != nil
}
