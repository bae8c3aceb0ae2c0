package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/notify"
	"github.com/14kear/online-polls/internal/repo/jobs"
	"github.com/14kear/online-polls/internal/repo/postgres"
	"github.com/14kear/online-polls/internal/services"
	"github.com/14kear/online-polls/internal/worker"
)

// ServiceName is the health service name the worker reports under.
const ServiceName = "polls.ResultsWorker"

type App struct {
	log        *slog.Logger
	worker     *worker.ResultsWorker
	gRPCServer *grpc.Server
	health     *health.Server
	healthPort int
	storage    *postgres.Storage
	queue      *jobs.Queue
}

func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "worker.NewApp"

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

	notifier, err := notify.New(log, cfg.Notify)
	if err != nil {
		_ = queue.Close()
		_ = storage.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	finalizer := services.NewFinalizer(log, services.SystemClock, storage, storage, storage, storage, notifier)
	resultsWorker := worker.NewResultsWorker(log, services.SystemClock, queue, finalizer, worker.Options{
		PollInterval: cfg.Scheduler.PollInterval,
		BatchSize:    cfg.Scheduler.BatchSize,
		Lease:        cfg.Scheduler.Lease,
		MaxAttempts:  cfg.Scheduler.MaxAttempts,
		Backoff:      cfg.Scheduler.Backoff,
	})

	healthServer := health.NewServer()
	gRPCServer := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(gRPCServer, healthServer)

	return &App{
		log:        log,
		worker:     resultsWorker,
		gRPCServer: gRPCServer,
		health:     healthServer,
		healthPort: cfg.Worker.HealthPort,
		storage:    storage,
		queue:      queue,
	}, nil
}

// Run serves the health endpoint and drains the job queue until ctx is
// cancelled or either of them fails.
func (a *App) Run(ctx context.Context) error {
	const op = "worker.Run"

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.healthPort))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("health server is running", slog.String("addr", lis.Addr().String()))
		if err := a.gRPCServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})

	g.Go(func() error {
		a.health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
		err := a.worker.Run(ctx)
		a.health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		a.gRPCServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

func (a *App) Stop() error {
	a.health.Shutdown()
	return errors.Join(a.queue.Close(), a.storage.Close())
}
