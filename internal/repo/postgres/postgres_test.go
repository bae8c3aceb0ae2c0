package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

func TestPqCode(t *testing.T) {
	unique := &pq.Error{Code: codeUniqueViolation, Constraint: "votes_voter_position_key"}
	wrapped := fmt.Errorf("insert: %w", unique)

	assert.Equal(t, pq.ErrorCode(codeUniqueViolation), pqCode(unique))
	assert.Equal(t, pq.ErrorCode(codeUniqueViolation), pqCode(wrapped))
	assert.Equal(t, pq.ErrorCode(codeForeignKeyViolation), pqCode(&pq.Error{Code: codeForeignKeyViolation}))
	assert.Empty(t, pqCode(errors.New("connection reset")))
	assert.Empty(t, pqCode(nil))
}

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Storage{db: db}, mock
}

var votedAt = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func TestSaveVote(t *testing.T) {
	vote := entity.Vote{VoterID: 42, VoterEmail: "voter@example.com", PositionID: 10, CandidateID: 100, CreatedAt: votedAt}
	columns := []string{"open", "candidate_position", "id"}

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		wantID  int64
		wantErr error
	}{
		{
			name:   "inserted",
			rows:   sqlmock.NewRows(columns).AddRow(true, int64(10), int64(77)),
			wantID: 77,
		},
		{
			name:    "poll closed at write time",
			rows:    sqlmock.NewRows(columns).AddRow(false, int64(10), nil),
			wantErr: repo.ErrPollClosed,
		},
		{
			name:    "candidate of another position",
			rows:    sqlmock.NewRows(columns).AddRow(true, int64(20), nil),
			wantErr: repo.ErrCandidateMismatch,
		},
		{
			name:    "unknown candidate",
			rows:    sqlmock.NewRows(columns).AddRow(true, nil, nil),
			wantErr: repo.ErrCandidateNotFound,
		},
		{
			name:    "unknown position",
			rows:    sqlmock.NewRows(columns),
			wantErr: repo.ErrPositionNotFound,
		},
		{
			name:    "second vote for the position",
			err:     &pq.Error{Code: codeUniqueViolation, Constraint: "votes_voter_position_key"},
			wantErr: repo.ErrVoteExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)

			q := mock.ExpectQuery(`INSERT INTO votes`).
				WithArgs(vote.VoterID, vote.VoterEmail, vote.PositionID, vote.CandidateID, vote.CreatedAt)
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(tt.rows)
			}

			id, err := s.SaveVote(context.Background(), vote)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSaveVoteQuery_GuardsTheWindow(t *testing.T) {
	assert.Contains(t, saveVoteQuery, "pl.finalized_at IS NULL")
	assert.Contains(t, saveVoteQuery, "make_interval(hours => pl.duration_hours)")
	assert.Contains(t, saveVoteQuery, "FOR SHARE OF pl")
}

func finalSnapshot(pollID int64, votes int64) entity.ResultSnapshot {
	return entity.ResultSnapshot{
		PollID: pollID,
		Result: entity.PollResult{
			PollID: pollID,
			Final:  true,
			Positions: []entity.PositionResult{{
				PositionID: 10,
				Candidates: []entity.CandidateTally{{CandidateID: 100, VoteCount: votes}},
			}},
		},
		ComputedAt: votedAt.Add(time.Hour),
	}
}

func TestFinalizePoll(t *testing.T) {
	const pollID = int64(5)
	snapshot := finalSnapshot(pollID, 2)

	t.Run("finalizes once", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE polls SET finalized_at`).
			WithArgs(snapshot.ComputedAt, pollID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM votes`).
			WithArgs(pollID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
		mock.ExpectExec(`INSERT INTO result_snapshots`).
			WithArgs(pollID, sqlmock.AnyArg(), snapshot.ComputedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.FinalizePoll(context.Background(), snapshot))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already finalized", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE polls SET finalized_at`).
			WithArgs(snapshot.ComputedAt, pollID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(pollID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := s.FinalizePoll(context.Background(), snapshot)
		assert.ErrorIs(t, err, repo.ErrAlreadyFinalized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown poll", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE polls SET finalized_at`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(pollID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := s.FinalizePoll(context.Background(), snapshot)
		assert.ErrorIs(t, err, repo.ErrPollNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vote landed after the tally", func(t *testing.T) {
		s, mock := newMockStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE polls SET finalized_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM votes`).
			WithArgs(pollID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
		mock.ExpectRollback()

		err := s.FinalizePoll(context.Background(), snapshot)
		assert.ErrorIs(t, err, repo.ErrStaleResults)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
