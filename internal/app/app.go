package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpapp "github.com/14kear/online-polls/internal/app/http"
	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/handlers"
	"github.com/14kear/online-polls/internal/middleware"
	"github.com/14kear/online-polls/internal/repo/jobs"
	"github.com/14kear/online-polls/internal/repo/postgres"
	"github.com/14kear/online-polls/internal/services"
)

type App struct {
	HTTPServer *httpapp.App
	Voting     *services.OnlineVoting
	storage    *postgres.Storage
	queue      *jobs.Queue
}

// NewApp wires the API process: postgres storage, the job queue the
// scheduler writes to, the voting service and the gin server.
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := jobs.Connect(cfg.StoragePath)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	queue := jobs.New(db, log)

	scheduler := services.NewResultScheduler(log, services.SystemClock, queue)
	votingService := services.NewOnlineVoting(log, services.SystemClock, storage, storage, storage, storage, scheduler)

	handler := handlers.NewVotingHandler(log, votingService)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.Auth.Secret)

	httpApp := httpapp.NewApp(log, cfg.HTTP.Port, cfg.HTTP.AllowOrigins, handler, authMiddleware.Middleware())

	return &App{
		HTTPServer: httpApp,
		Voting:     votingService,
		storage:    storage,
		queue:      queue,
	}, nil
}

func (a *App) Stop(ctx context.Context) error {
	return errors.Join(
		a.HTTPServer.Stop(ctx),
		a.queue.Close(),
		a.storage.Close(),
	)
}
