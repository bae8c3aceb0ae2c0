package handlers

import (
	"time"

	"github.com/14kear/online-polls/internal/entity"
)

type PollRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	DurationHours int       `json:"duration" binding:"required,gt=0"`
}

type CreatePositionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type CreateCandidateRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	ProfilePicture *string `json:"profile_picture"`
}

type VoteRequest struct {
	Position  int64 `json:"position" binding:"required,gt=0"`
	Candidate int64 `json:"candidate" binding:"required,gt=0"`
}

type VoteResponse struct {
	ID        int64 `json:"id"`
	Position  int64 `json:"position"`
	Candidate int64 `json:"candidate"`
}

type PollSummary struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartTime   time.Time         `json:"start_time"`
	Duration    int               `json:"duration"`
	Status      entity.PollStatus `json:"status"`
}

type PollDetail struct {
	PollSummary
	EndTime   *time.Time       `json:"end_time"`
	Positions []PositionDetail `json:"positions"`
}

type PositionDetail struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Candidates  []CandidateDetail `json:"candidates"`
}

type CandidateDetail struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
	Description    string  `json:"description"`
}

type LogEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action"`
	PollID      *int64    `json:"poll_id,omitempty"`
	PositionID  *int64    `json:"position_id,omitempty"`
	CandidateID *int64    `json:"candidate_id,omitempty"`
	VoteID      *int64    `json:"vote_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toPollSummary(poll entity.Poll, now time.Time) PollSummary {
	return PollSummary{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		StartTime:   poll.StartTime,
		Duration:    poll.DurationHours,
		Status:      poll.Status(now),
	}
}

func toPollDetail(poll entity.Poll, now time.Time) PollDetail {
	detail := PollDetail{
		PollSummary: toPollSummary(poll, now),
		Positions:   make([]PositionDetail, 0, len(poll.Positions)),
	}
	if end, ok := poll.EndTime(); ok {
		detail.EndTime = &end
	}

	for _, p := range poll.Positions {
		position := PositionDetail{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Candidates:  make([]CandidateDetail, 0, len(p.Candidates)),
		}
		for _, c := range p.Candidates {
			position.Candidates = append(position.Candidates, CandidateDetail{
				ID:             c.ID,
				Name:           c.Name,
				ProfilePicture: c.ProfilePicture,
				Description:    c.Description,
			})
		}
		detail.Positions = append(detail.Positions, position)
	}

	return detail
}

func toLogEntry(l entity.Log) LogEntry {
	return LogEntry{
		ID:          l.ID,
		UserID:      l.UserID,
		Action:      l.Action,
		PollID:      l.PollID,
		PositionID:  l.PositionID,
		CandidateID: l.CandidateID,
		VoteID:      l.VoteID,
		CreatedAt:   l.CreatedAt,
	}
}
