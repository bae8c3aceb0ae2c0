package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/app"
	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	cfg := config.Load(config.Path(configPath))

	log := utils.New(cfg.Env)

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to init application", sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := application.HTTPServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to run HTTP server", sl.Err(err))
			stop()
		}
	}()

	log.Info("polls service started", slog.String("env", cfg.Env), slog.Int("port", cfg.HTTP.Port))

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		os.Exit(1)
	}
}
