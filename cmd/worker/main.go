package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/app/worker"
	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	cfg := config.Load(config.Path(configPath))

	log := utils.New(cfg.Env)

	application, err := worker.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to init results worker", sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("results worker starting", slog.String("env", cfg.Env), slog.Int("healthPort", cfg.Worker.HealthPort))

	runErr := application.Run(ctx)
	if err := application.Stop(); err != nil {
		log.Error("failed to release resources", sl.Err(err))
	}
	if runErr != nil {
		log.Error("results worker failed", sl.Err(runErr))
		os.Exit(1)
	}

	log.Info("results worker stopped")
}
