// Package jobs is the durable results job queue on top of gorm. Delivery is
// at-least-once: a fired job whose lease runs out is handed out again.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

type jobModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	PollID      int64      `gorm:"column:poll_id"`
	RunAt       time.Time  `gorm:"column:run_at"`
	State       string     `gorm:"column:state"`
	Attempts    int        `gorm:"column:attempts"`
	LastError   string     `gorm:"column:last_error"`
	LockedUntil *time.Time `gorm:"column:locked_until"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (jobModel) TableName() string { return "result_jobs" }

func (m jobModel) toEntity() entity.ResultJob {
	return entity.ResultJob{
		ID:          m.ID,
		PollID:      m.PollID,
		RunAt:       m.RunAt,
		State:       entity.JobState(m.State),
		Attempts:    m.Attempts,
		LastError:   m.LastError,
		LockedUntil: m.LockedUntil,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type Queue struct {
	db  *gorm.DB
	log *slog.Logger
}

// Connect opens a gorm connection to postgres and verifies it.
func Connect(dsn string) (*gorm.DB, error) {
	const op = "storage.jobs.Connect"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}

func New(db *gorm.DB, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{db: db, log: log}
}

func (q *Queue) Close() error {
	sqlDB, err := q.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Enqueue inserts a scheduled job. Scheduling the same poll for the same
// instant twice keeps the existing row.
func (q *Queue) Enqueue(ctx context.Context, pollID int64, runAt time.Time) (entity.ResultJob, error) {
	const op = "storage.jobs.Enqueue"

	now := time.Now().UTC()
	row := jobModel{
		ID:        uuid.NewString(),
		PollID:    pollID,
		RunAt:     runAt.UTC(),
		State:     string(entity.JobStateScheduled),
		CreatedAt: now,
		UpdatedAt: now,
	}

	res := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "run_at"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return entity.ResultJob{}, fmt.Errorf("%s: %w", op, repo.ErrPollNotFound)
		}
		return entity.ResultJob{}, q.logError(op, res.Error, slog.Int64("pollID", pollID))
	}

	if res.RowsAffected == 0 {
		var existing jobModel
		err := q.db.WithContext(ctx).
			Where("poll_id = ? AND run_at = ?", pollID, row.RunAt).
			First(&existing).Error
		if err != nil {
			return entity.ResultJob{}, q.logError(op, err, slog.Int64("pollID", pollID))
		}
		return existing.toEntity(), nil
	}

	return row.toEntity(), nil
}

// ClaimDue locks up to limit due jobs, marks them fired with a lease and
// returns them. Rows locked by another worker are skipped.
func (q *Queue) ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]entity.ResultJob, error) {
	const op = "storage.jobs.ClaimDue"

	var claimed []entity.ResultJob
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(state = ? AND run_at <= ?) OR (state = ? AND locked_until < ?)",
				entity.JobStateScheduled, now, entity.JobStateFired, now).
			Order("run_at")
		if limit > 0 {
			query = query.Limit(limit)
		}

		var rows []jobModel
		if err := query.Find(&rows).Error; err != nil {
			return err
		}

		lockedUntil := now.Add(lease)
		for i := range rows {
			rows[i].State = string(entity.JobStateFired)
			rows[i].Attempts++
			rows[i].LockedUntil = &lockedUntil
			rows[i].UpdatedAt = now

			err := tx.Model(&jobModel{}).Where("id = ?", rows[i].ID).Updates(map[string]any{
				"state":        rows[i].State,
				"attempts":     rows[i].Attempts,
				"locked_until": lockedUntil,
				"updated_at":   now,
			}).Error
			if err != nil {
				return err
			}
			claimed = append(claimed, rows[i].toEntity())
		}
		return nil
	})
	if err != nil {
		return nil, q.logError(op, err)
	}

	return claimed, nil
}

func (q *Queue) MarkSucceeded(ctx context.Context, id string, at time.Time) error {
	const op = "storage.jobs.MarkSucceeded"

	return q.update(ctx, op, id, map[string]any{
		"state":        entity.JobStateSucceeded,
		"locked_until": nil,
		"updated_at":   at,
	})
}

func (q *Queue) MarkFailed(ctx context.Context, id string, reason string, at time.Time) error {
	const op = "storage.jobs.MarkFailed"

	return q.update(ctx, op, id, map[string]any{
		"state":        entity.JobStateFailed,
		"last_error":   reason,
		"locked_until": nil,
		"updated_at":   at,
	})
}

// Retry puts a failed attempt back in the queue, keeping its attempt count.
func (q *Queue) Retry(ctx context.Context, id string, runAt time.Time, reason string) error {
	const op = "storage.jobs.Retry"

	return q.move(ctx, op, id, map[string]any{
		"state":        entity.JobStateScheduled,
		"run_at":       runAt.UTC(),
		"last_error":   reason,
		"locked_until": nil,
		"updated_at":   time.Now().UTC(),
	})
}

// Reschedule moves a job to a new run time and resets its attempts.
func (q *Queue) Reschedule(ctx context.Context, id string, runAt time.Time) error {
	const op = "storage.jobs.Reschedule"

	return q.move(ctx, op, id, map[string]any{
		"state":        entity.JobStateScheduled,
		"run_at":       runAt.UTC(),
		"attempts":     0,
		"last_error":   "",
		"locked_until": nil,
		"updated_at":   time.Now().UTC(),
	})
}

// move changes run_at. When another job already exists for the same poll at
// that instant the moved job is redundant and is closed as succeeded.
func (q *Queue) move(ctx context.Context, op, id string, updates map[string]any) error {
	err := q.update(ctx, op, id, updates)
	if err == nil || !isUniqueViolation(err) {
		return err
	}

	q.log.Info("job superseded by an existing job", slog.String("op", op), slog.String("jobID", id))
	return q.MarkSucceeded(ctx, id, time.Now().UTC())
}

func (q *Queue) update(ctx context.Context, op, id string, updates map[string]any) error {
	res := q.db.WithContext(ctx).Model(&jobModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%s: %w", op, res.Error)
		}
		return q.logError(op, res.Error, slog.String("jobID", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrJobNotFound)
	}
	return nil
}

func (q *Queue) logError(op string, err error, attrs ...any) error {
	q.log.With(slog.String("op", op)).Error("result jobs storage failed", append(attrs, sl.Err(err))...)
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
