package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/middleware"
	"github.com/14kear/online-polls/internal/services"
)

type VotingHandler struct {
	log           *slog.Logger
	votingService *services.OnlineVoting
}

func NewVotingHandler(log *slog.Logger, votingService *services.OnlineVoting) *VotingHandler {
	return &VotingHandler{log: log, votingService: votingService}
}

func (v *VotingHandler) GetPolls(c *gin.Context) {
	polls, err := v.votingService.GetPolls(c.Request.Context())
	if err != nil {
		v.writeError(c, err)
		return
	}

	now := v.votingService.Now()
	resp := make([]PollSummary, 0, len(polls))
	for _, p := range polls {
		resp = append(resp, toPollSummary(p, now))
	}

	c.JSON(http.StatusOK, resp)
}

func (v *VotingHandler) GetPollByID(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	poll, err := v.votingService.GetPollByID(c.Request.Context(), pollID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPollDetail(poll, v.votingService.Now()))
}

func (v *VotingHandler) Vote(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "position and candidate are required")
		return
	}

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "unauthorized"})
		return
	}

	vote, err := v.votingService.CastVote(c.Request.Context(), identity, pollID, req.Position, req.Candidate)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, VoteResponse{
		ID:        vote.ID,
		Position:  vote.PositionID,
		Candidate: vote.CandidateID,
	})
}

// GetPollResults serves live tallies to identities allowed to watch them and
// final tallies to everyone once the poll has ended.
func (v *VotingHandler) GetPollResults(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	result, err := v.votingService.PollResults(c.Request.Context(), pollID, identity.Can(entity.CapViewLiveResults))
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (v *VotingHandler) CreatePoll(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	pollID, err := v.votingService.CreatePoll(c.Request.Context(), req.toInput(), identity.UserID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": pollID})
}

func (v *VotingHandler) UpdatePoll(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	if err := v.votingService.UpdatePoll(c.Request.Context(), pollID, req.toInput(), identity.UserID); err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": pollID})
}

func (v *VotingHandler) DeletePoll(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	if err := v.votingService.DeletePoll(c.Request.Context(), pollID, identity.UserID); err != nil {
		v.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (v *VotingHandler) CreatePosition(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	positionID, err := v.votingService.CreatePosition(c.Request.Context(), pollID, req.Title, req.Description, identity.UserID)
	if err != nil {
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": positionID})
}

func (v *VotingHandler) CreateCandidate(c *gin.Context) {
	pollID, ok := paramID(c, "id")
	if !ok {
		return
	}
	positionID, ok := paramID(c, "positionID")
	if !ok {
		return
	}

	var req CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input")
		return
	}

	identity, _ := middleware.IdentityFrom(c)

	candidateID, err := v.votingService.CreateCandidate(c.Request.Context(), pollID, entity.Candidate{
		PositionID:     positionID,
		Name:           req.Name,
		Description:    req.Description,
		ProfilePicture: req.ProfilePicture,
	}, identity.UserID)
	if err != nil {
		// the position comes from the path here, not from the body
		if errors.Is(err, services.ErrPositionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": KindPositionNotFound, "message": services.ErrPositionNotFound.Error()})
			return
		}
		v.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": candidateID})
}

func (v *VotingHandler) GetLogs(c *gin.Context) {
	logs, err := v.votingService.GetLogs(c.Request.Context())
	if err != nil {
		v.writeError(c, err)
		return
	}

	resp := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, toLogEntry(l))
	}

	c.JSON(http.StatusOK, resp)
}

func (r PollRequest) toInput() services.PollInput {
	return services.PollInput{
		Title:         r.Title,
		Description:   r.Description,
		StartTime:     r.StartTime,
		DurationHours: r.DurationHours,
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
