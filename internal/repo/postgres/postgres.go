package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

const pollColumns = `id, title, description, start_time, duration_hours, finalized_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPoll(row scanner) (entity.Poll, error) {
	var poll entity.Poll
	err := row.Scan(&poll.ID, &poll.Title, &poll.Description, &poll.StartTime, &poll.DurationHours,
		&poll.FinalizedAt, &poll.CreatedAt, &poll.UpdatedAt)
	return poll, err
}

func (s *Storage) SavePoll(ctx context.Context, poll entity.Poll) (int64, error) {
	const op = "storage.postgres.SavePoll"

	query := `INSERT INTO polls (title, description, start_time, duration_hours) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, poll.Title, poll.Description, poll.StartTime, poll.DurationHours).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPollByID(ctx context.Context, id int64) (entity.Poll, error) {
	const op = "storage.postgres.GetPollByID"

	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	poll, err := scanPoll(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) GetPolls(ctx context.Context) ([]entity.Poll, error) {
	const op = "storage.postgres.GetPolls"

	query := `SELECT ` + pollColumns + ` FROM polls ORDER BY start_time DESC, id DESC`

	return s.queryPolls(ctx, op, query)
}

// GetEndedUnfinalizedPolls returns polls whose window closed before now and
// whose results were never finalized.
func (s *Storage) GetEndedUnfinalizedPolls(ctx context.Context, now time.Time) ([]entity.Poll, error) {
	const op = "storage.postgres.GetEndedUnfinalizedPolls"

	query := `SELECT ` + pollColumns + ` FROM polls
		WHERE finalized_at IS NULL AND start_time + make_interval(hours => duration_hours) < $1
		ORDER BY start_time`

	return s.queryPolls(ctx, op, query, now)
}

func (s *Storage) queryPolls(ctx context.Context, op, query string, args ...any) ([]entity.Poll, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var polls []entity.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		polls = append(polls, poll)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return polls, nil
}

func (s *Storage) UpdatePoll(ctx context.Context, poll entity.Poll) error {
	const op = "storage.postgres.UpdatePoll"

	const query = `UPDATE polls SET title = $1, description = $2, start_time = $3, duration_hours = $4, updated_at = NOW() WHERE id = $5`

	res, err := s.db.ExecContext(ctx, query, poll.Title, poll.Description, poll.StartTime, poll.DurationHours, poll.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}
	return nil
}

func (s *Storage) DeletePoll(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeletePoll"

	query := `DELETE FROM polls WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
	}

	return nil
}

func (s *Storage) SavePosition(ctx context.Context, position entity.Position) (int64, error) {
	const op = "storage.postgres.SavePosition"

	query := `INSERT INTO positions (poll_id, title, description) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, position.PollID, position.Title, position.Description).Scan(&id)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return 0, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPositionByID(ctx context.Context, id int64) (entity.Position, error) {
	const op = "storage.postgres.GetPositionByID"

	query := `SELECT id, poll_id, title, description FROM positions WHERE id = $1`

	var position entity.Position
	err := s.db.QueryRowContext(ctx, query, id).Scan(&position.ID, &position.PollID, &position.Title, &position.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Position{}, fmt.Errorf("%s: %w", op, repo.ErrPositionNotFound)
		}
		return entity.Position{}, fmt.Errorf("%s: %w", op, err)
	}

	return position, nil
}

// GetPositionsByPollID returns the poll's positions with their candidates
// nested, both ordered by id.
func (s *Storage) GetPositionsByPollID(ctx context.Context, pollID int64) ([]entity.Position, error) {
	const op = "storage.postgres.GetPositionsByPollID"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, poll_id, title, description FROM positions WHERE poll_id = $1 ORDER BY id`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var positions []entity.Position
	index := make(map[int64]int)
	for rows.Next() {
		var position entity.Position
		if err := rows.Scan(&position.ID, &position.PollID, &position.Title, &position.Description); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		index[position.ID] = len(positions)
		positions = append(positions, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	if len(positions) == 0 {
		return positions, nil
	}

	candRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.position_id, c.name, c.description, c.profile_picture
		FROM candidates c JOIN positions p ON p.id = c.position_id
		WHERE p.poll_id = $1 ORDER BY c.id`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer candRows.Close()

	for candRows.Next() {
		var candidate entity.Candidate
		if err := candRows.Scan(&candidate.ID, &candidate.PositionID, &candidate.Name, &candidate.Description, &candidate.ProfilePicture); err != nil {
			return nil, fmt.Errorf("%s: scan candidate: %w", op, err)
		}
		if i, ok := index[candidate.PositionID]; ok {
			positions[i].Candidates = append(positions[i].Candidates, candidate)
		}
	}
	if err := candRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return positions, nil
}

func (s *Storage) SaveCandidate(ctx context.Context, candidate entity.Candidate) (int64, error) {
	const op = "storage.postgres.SaveCandidate"

	query := `INSERT INTO candidates (position_id, name, description, profile_picture) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, candidate.PositionID, candidate.Name, candidate.Description, candidate.ProfilePicture).Scan(&id)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return 0, fmt.Errorf("%s: %w", op, repo.ErrPositionNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetCandidateByID(ctx context.Context, id int64) (entity.Candidate, error) {
	const op = "storage.postgres.GetCandidateByID"

	query := `SELECT id, position_id, name, description, profile_picture FROM candidates WHERE id = $1`

	var candidate entity.Candidate
	err := s.db.QueryRowContext(ctx, query, id).Scan(&candidate.ID, &candidate.PositionID, &candidate.Name, &candidate.Description, &candidate.ProfilePicture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Candidate{}, fmt.Errorf("%s: %w", op, repo.ErrCandidateNotFound)
		}
		return entity.Candidate{}, fmt.Errorf("%s: %w", op, err)
	}

	return candidate, nil
}

// saveVoteQuery inserts the vote only if, at write time, the poll is inside
// its voting window and not finalized and the candidate stands for the
// position. The poll row is share-locked so FinalizePoll waits for the
// insert. The outer select reports why nothing was inserted.
const saveVoteQuery = `
WITH target AS (
    SELECT pl.finalized_at IS NULL
               AND $5::timestamptz BETWEEN pl.start_time
                   AND pl.start_time + make_interval(hours => pl.duration_hours) AS open,
           c.position_id AS candidate_position
    FROM positions p
    JOIN polls pl ON pl.id = p.poll_id
    LEFT JOIN candidates c ON c.id = $4::bigint
    WHERE p.id = $3::bigint
    FOR SHARE OF pl
), inserted AS (
    INSERT INTO votes (voter_id, voter_email, position_id, candidate_id, created_at)
    SELECT $1::bigint, $2::text, $3::bigint, $4::bigint, $5::timestamptz
    FROM target
    WHERE target.open AND target.candidate_position = $3::bigint
    RETURNING id
)
SELECT target.open, target.candidate_position, inserted.id
FROM target
LEFT JOIN inserted ON TRUE`

// SaveVote inserts a vote after re-checking the vote rules against the
// stored poll. The (voter_id, position_id) unique constraint is the
// authority on duplicates; a violation comes back as repo.ErrVoteExists.
func (s *Storage) SaveVote(ctx context.Context, vote entity.Vote) (int64, error) {
	const op = "storage.postgres.SaveVote"

	var (
		open              bool
		candidatePosition sql.NullInt64
		id                sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, saveVoteQuery,
		vote.VoterID, vote.VoterEmail, vote.PositionID, vote.CandidateID, vote.CreatedAt,
	).Scan(&open, &candidatePosition, &id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, fmt.Errorf("%s: %w", op, repo.ErrPositionNotFound)
		case pqCode(err) == codeUniqueViolation:
			return 0, fmt.Errorf("%s: %w", op, repo.ErrVoteExists)
		case pqCode(err) == codeForeignKeyViolation:
			return 0, fmt.Errorf("%s: %w", op, repo.ErrCandidateNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case !candidatePosition.Valid:
		return 0, fmt.Errorf("%s: %w", op, repo.ErrCandidateNotFound)
	case !open:
		return 0, fmt.Errorf("%s: %w", op, repo.ErrPollClosed)
	case candidatePosition.Int64 != vote.PositionID:
		return 0, fmt.Errorf("%s: %w", op, repo.ErrCandidateMismatch)
	case !id.Valid:
		return 0, fmt.Errorf("%s: vote not inserted", op)
	}

	return id.Int64, nil
}

func (s *Storage) HasVoted(ctx context.Context, voterID, positionID int64) (bool, error) {
	const op = "storage.postgres.HasVoted"

	query := `SELECT EXISTS (SELECT 1 FROM votes WHERE voter_id = $1 AND position_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, voterID, positionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (s *Storage) CountForCandidate(ctx context.Context, candidateID int64) (int64, error) {
	const op = "storage.postgres.CountForCandidate"

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE candidate_id = $1`, candidateID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// CountsForPoll returns vote counts keyed by candidate id in a single
// snapshot query. Candidates without votes are absent from the map.
func (s *Storage) CountsForPoll(ctx context.Context, pollID int64) (map[int64]int64, error) {
	const op = "storage.postgres.CountsForPoll"

	query := `SELECT v.candidate_id, COUNT(*) FROM votes v
		JOIN positions p ON p.id = v.position_id
		WHERE p.poll_id = $1 GROUP BY v.candidate_id`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var candidateID, count int64
		if err := rows.Scan(&candidateID, &count); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		counts[candidateID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return counts, nil
}

func (s *Storage) VotesForPoll(ctx context.Context, pollID int64) ([]entity.Vote, error) {
	const op = "storage.postgres.VotesForPoll"

	query := `SELECT v.id, v.voter_id, v.voter_email, v.position_id, v.candidate_id, v.created_at
		FROM votes v JOIN positions p ON p.id = v.position_id
		WHERE p.poll_id = $1 ORDER BY v.id`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var votes []entity.Vote
	for rows.Next() {
		var vote entity.Vote
		if err := rows.Scan(&vote.ID, &vote.VoterID, &vote.VoterEmail, &vote.PositionID, &vote.CandidateID, &vote.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return votes, nil
}

func (s *Storage) VoterEmailsForPoll(ctx context.Context, pollID int64) ([]string, error) {
	const op = "storage.postgres.VoterEmailsForPoll"

	query := `SELECT DISTINCT v.voter_email FROM votes v
		JOIN positions p ON p.id = v.position_id
		WHERE p.poll_id = $1 AND v.voter_email <> '' ORDER BY v.voter_email`

	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return emails, nil
}

// FinalizePoll sets finalized_at and stores the snapshot in one transaction.
// It returns repo.ErrAlreadyFinalized when another caller got there first and
// repo.ErrStaleResults when a vote landed after the snapshot was tallied.
func (s *Storage) FinalizePoll(ctx context.Context, snapshot entity.ResultSnapshot) (err error) {
	const op = "storage.postgres.FinalizePoll"

	payload, err := json.Marshal(snapshot.Result)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE polls SET finalized_at = $1, updated_at = NOW() WHERE id = $2 AND finalized_at IS NULL`,
		snapshot.ComputedAt, snapshot.PollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM polls WHERE id = $1)`, snapshot.PollID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			err = repo.ErrPollNotFound
			return fmt.Errorf("%s: %w", op, err)
		}
		err = repo.ErrAlreadyFinalized
		return fmt.Errorf("%s: %w", op, err)
	}

	// The poll row is now locked and finalized, so no vote can land after
	// this count.
	var cast int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes v JOIN positions p ON p.id = v.position_id WHERE p.poll_id = $1`,
		snapshot.PollID).Scan(&cast)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cast != snapshot.Result.TotalVotes() {
		err = repo.ErrStaleResults
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = upsertSnapshot(ctx, tx, snapshot.PollID, payload, snapshot.ComputedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Storage) SaveSnapshot(ctx context.Context, snapshot entity.ResultSnapshot) error {
	const op = "storage.postgres.SaveSnapshot"

	payload, err := json.Marshal(snapshot.Result)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	if err := upsertSnapshot(ctx, s.db, snapshot.PollID, payload, snapshot.ComputedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertSnapshot(ctx context.Context, db execer, pollID int64, payload []byte, computedAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO result_snapshots (poll_id, payload, computed_at) VALUES ($1, $2, $3)
		ON CONFLICT (poll_id) DO UPDATE SET payload = EXCLUDED.payload, computed_at = EXCLUDED.computed_at`,
		pollID, payload, computedAt)
	if pqCode(err) == codeForeignKeyViolation {
		return repo.ErrPollNotFound
	}
	return err
}

func (s *Storage) GetSnapshot(ctx context.Context, pollID int64) (entity.ResultSnapshot, error) {
	const op = "storage.postgres.GetSnapshot"

	var (
		snapshot = entity.ResultSnapshot{PollID: pollID}
		payload  []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT payload, computed_at FROM result_snapshots WHERE poll_id = $1`, pollID).
		Scan(&payload, &snapshot.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ResultSnapshot{}, fmt.Errorf("%s: %w", op, repo.ErrSnapshotNotFound)
		}
		return entity.ResultSnapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(payload, &snapshot.Result); err != nil {
		return entity.ResultSnapshot{}, fmt.Errorf("%s: unmarshal: %w", op, err)
	}

	return snapshot, nil
}

func (s *Storage) SaveLog(ctx context.Context, log *entity.Log) (int64, error) {
	const op = "storage.postgres.SaveLog"

	query := `INSERT INTO logs (user_id, action, poll_id, position_id, candidate_id, vote_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := s.db.QueryRowContext(ctx, query, log.UserID, log.Action, log.PollID, log.PositionID, log.CandidateID, log.VoteID).Scan(&log.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return log.ID, nil
}

func (s *Storage) GetLogs(ctx context.Context) ([]entity.Log, error) {
	const op = "storage.postgres.GetLogs"

	query := `SELECT id, user_id, action, poll_id, position_id, candidate_id, vote_id, created_at FROM logs ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var logs []entity.Log
	for rows.Next() {
		var log entity.Log
		if err := rows.Scan(&log.ID, &log.UserID, &log.Action, &log.PollID, &log.PositionID, &log.CandidateID, &log.VoteID, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return logs, nil
}
