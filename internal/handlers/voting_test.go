package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/handlers"
	"github.com/14kear/online-polls/internal/lib/testsuite"
)

var start = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type ballot struct {
	pollID     int64
	positionID int64
	ada, bob   int64
}

type idResponse struct {
	ID int64 `json:"id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func admin() entity.Identity {
	return entity.Identity{UserID: 1, Email: gofakeit.Email(), Role: entity.RoleAdmin}
}

func voter(id int64) entity.Identity {
	return entity.Identity{UserID: id, Email: gofakeit.Email(), Role: entity.RoleVoter}
}

// setupBallot creates a one-hour poll starting at start with one position
// and two candidates through the admin API.
func setupBallot(st *testsuite.Suite) ballot {
	st.Helper()
	token := st.Token(admin())

	w := st.Do(http.MethodPost, "/api/polls/", token, map[string]any{
		"title":       "Board election",
		"description": gofakeit.Name(),
		"start_time":  start.Format(time.RFC3339),
		"duration":    1,
	})
	require.Equal(st, http.StatusCreated, w.Code, w.Body.String())
	var poll idResponse
	st.Decode(w, &poll)

	w = st.Do(http.MethodPost, fmt.Sprintf("/api/polls/%d/positions/", poll.ID), token, map[string]any{"title": "Chair"})
	require.Equal(st, http.StatusCreated, w.Code, w.Body.String())
	var position idResponse
	st.Decode(w, &position)

	candidate := func(name string) int64 {
		w := st.Do(http.MethodPost, fmt.Sprintf("/api/polls/%d/positions/%d/candidates/", poll.ID, position.ID), token,
			map[string]any{"name": name})
		require.Equal(st, http.StatusCreated, w.Code, w.Body.String())
		var c idResponse
		st.Decode(w, &c)
		return c.ID
	}

	return ballot{
		pollID:     poll.ID,
		positionID: position.ID,
		ada:        candidate("Ada"),
		bob:        candidate("Bob"),
	}
}

func vote(st *testsuite.Suite, token string, b ballot, candidate int64) (int, errorResponse) {
	st.Helper()
	w := st.Do(http.MethodPost, fmt.Sprintf("/api/polls/%d/vote/", b.pollID), token, map[string]any{
		"position":  b.positionID,
		"candidate": candidate,
	})
	var e errorResponse
	if w.Code != http.StatusCreated {
		st.Decode(w, &e)
	}
	return w.Code, e
}

func TestPollLifecycle_HappyPath(t *testing.T) {
	_, st := testsuite.New(t, start.Add(-time.Hour))
	b := setupBallot(st)

	alice := st.Token(voter(100))
	carol := st.Token(voter(101))

	w := st.Do(http.MethodGet, "/api/polls/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []handlers.PollSummary
	st.Decode(w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, entity.PollStatusUpcoming, list[0].Status)
	assert.Equal(t, 1, list[0].Duration)

	code, e := vote(st, alice, b, b.ada)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handlers.KindPollNotActive, e.Error)

	st.Clock.Set(start.Add(30 * time.Minute))

	w = st.Do(http.MethodGet, fmt.Sprintf("/api/polls/%d/", b.pollID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail handlers.PollDetail
	st.Decode(w, &detail)
	assert.Equal(t, entity.PollStatusActive, detail.Status)
	require.NotNil(t, detail.EndTime)
	assert.True(t, detail.EndTime.Equal(start.Add(time.Hour)))
	require.Len(t, detail.Positions, 1)
	assert.Len(t, detail.Positions[0].Candidates, 2)

	w = st.Do(http.MethodPost, fmt.Sprintf("/api/polls/%d/vote/", b.pollID), alice, map[string]any{
		"position":  b.positionID,
		"candidate": b.bob,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created handlers.VoteResponse
	st.Decode(w, &created)
	assert.Equal(t, b.positionID, created.Position)
	assert.Equal(t, b.bob, created.Candidate)
	assert.NotZero(t, created.ID)

	code, _ = vote(st, carol, b, b.bob)
	assert.Equal(t, http.StatusCreated, code)

	code, e = vote(st, alice, b, b.ada)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handlers.KindDuplicateVote, e.Error)

	resultsPath := fmt.Sprintf("/api/polls/%d/results/", b.pollID)

	w = st.Do(http.MethodGet, resultsPath, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	st.Decode(w, &e)
	assert.Equal(t, handlers.KindResultsNotYetAvailable, e.Error)

	w = st.Do(http.MethodGet, resultsPath, st.Token(admin()), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var live entity.PollResult
	st.Decode(w, &live)
	assert.False(t, live.Final)
	assert.Nil(t, live.Positions[0].Winner)
	assert.Equal(t, int64(2), live.Positions[0].Candidates[0].VoteCount)

	st.Clock.Set(start.Add(2 * time.Hour))

	code, e = vote(st, st.Token(voter(102)), b, b.ada)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, handlers.KindPollNotActive, e.Error)

	w = st.Do(http.MethodGet, resultsPath, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var final entity.PollResult
	st.Decode(w, &final)
	assert.True(t, final.Final)
	assert.Equal(t, entity.PollStatusEnded, final.Status)
	require.NotNil(t, final.Positions[0].Winner)
	assert.Equal(t, b.bob, final.Positions[0].Winner.CandidateID)
	assert.Equal(t, int64(2), final.Positions[0].Winner.VoteCount)
}

func TestVote_ReferenceErrors(t *testing.T) {
	_, st := testsuite.New(t, start.Add(10*time.Minute))
	b := setupBallot(st)
	other := setupBallot(st)
	token := st.Token(voter(7))

	path := fmt.Sprintf("/api/polls/%d/vote/", b.pollID)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantKind string
	}{
		{
			name:     "candidate of another position",
			body:     map[string]any{"position": b.positionID, "candidate": other.ada},
			wantCode: http.StatusBadRequest,
			wantKind: handlers.KindCandidateMismatch,
		},
		{
			name:     "position of another poll",
			body:     map[string]any{"position": other.positionID, "candidate": other.ada},
			wantCode: http.StatusBadRequest,
			wantKind: handlers.KindPositionNotFound,
		},
		{
			name:     "unknown candidate",
			body:     map[string]any{"position": b.positionID, "candidate": 9999},
			wantCode: http.StatusBadRequest,
			wantKind: handlers.KindCandidateNotFound,
		},
		{
			name:     "missing candidate",
			body:     map[string]any{"position": b.positionID},
			wantCode: http.StatusBadRequest,
			wantKind: handlers.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := st.Do(http.MethodPost, path, token, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			var e errorResponse
			st.Decode(w, &e)
			assert.Equal(t, tt.wantKind, e.Error)
		})
	}

	w := st.Do(http.MethodPost, "/api/polls/4242/vote/", token, map[string]any{"position": b.positionID, "candidate": b.ada})
	assert.Equal(t, http.StatusNotFound, w.Code)
	var e errorResponse
	st.Decode(w, &e)
	assert.Equal(t, handlers.KindPollNotFound, e.Error)
}

func TestAccessControl(t *testing.T) {
	_, st := testsuite.New(t, start.Add(10*time.Minute))
	b := setupBallot(st)

	w := st.Do(http.MethodGet, "/api/polls/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = st.Do(http.MethodPost, "/api/polls/", st.Token(voter(5)), map[string]any{
		"title": "x", "start_time": start.Format(time.RFC3339), "duration": 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	code, _ := vote(st, st.Token(admin()), b, b.ada)
	assert.Equal(t, http.StatusForbidden, code, "admins do not vote")

	w = st.Do(http.MethodGet, "/api/logs/", st.Token(voter(5)), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = st.Do(http.MethodGet, "/api/logs/", st.Token(admin()), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []handlers.LogEntry
	st.Decode(w, &logs)
	assert.Len(t, logs, 4, "poll, position and two candidates")

	w = st.Do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_PollManagement(t *testing.T) {
	ctx, st := testsuite.New(t, start.Add(-time.Hour))
	b := setupBallot(st)
	token := st.Token(admin())
	path := fmt.Sprintf("/api/polls/%d/", b.pollID)

	jobs := st.Store.Jobs()
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].RunAt.Equal(start.Add(time.Hour)))

	w := st.Do(http.MethodPut, path, token, map[string]any{
		"title": "Board election", "start_time": start.Format(time.RFC3339), "duration": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, st.Store.Jobs(), 2, "extension schedules a job for the new end")

	w = st.Do(http.MethodPut, path, token, map[string]any{
		"title": "Board election", "start_time": start.Format(time.RFC3339), "duration": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	st.Clock.Set(start.Add(4 * time.Hour))
	require.NoError(t, st.Finalizer.Finalize(ctx, b.pollID))

	w = st.Do(http.MethodPut, path, token, map[string]any{
		"title": "Board election", "start_time": start.Format(time.RFC3339), "duration": 5,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = st.Do(http.MethodPost, fmt.Sprintf("/api/polls/%d/positions/999/candidates/", b.pollID), token,
		map[string]any{"name": "Zed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = st.Do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = st.Do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
