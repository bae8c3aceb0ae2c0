package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/notify"
	"github.com/14kear/online-polls/internal/repo/postgres"
	"github.com/14kear/online-polls/internal/services"
	"github.com/14kear/online-polls/utils"
)

func main() {
	var (
		configPath string
		pollID     int64
		all        bool
		sendNotify bool
	)

	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Int64Var(&pollID, "poll-id", 0, "recompute the results of one ended poll")
	flag.BoolVar(&all, "all", false, "recompute every ended poll that is not finalized yet")
	flag.BoolVar(&sendNotify, "notify", false, "notify voters when this run finalizes the poll")
	flag.Parse()

	if (pollID > 0) == all {
		fmt.Fprintln(os.Stderr, "exactly one of -poll-id or -all is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load(config.Path(configPath))
	logger := utils.New(cfg.Env)

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Close()

	notifier, err := notify.New(logger, cfg.Notify)
	if err != nil {
		log.Fatal(err)
	}

	finalizer := services.NewFinalizer(logger, services.SystemClock, storage, storage, storage, storage, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if all {
		results, err := finalizer.RecomputeAll(ctx, sendNotify)
		for _, r := range results {
			printResult(os.Stdout, r)
		}
		fmt.Printf("%s polls recomputed\n", humanize.Comma(int64(len(results))))
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	result, err := finalizer.Recompute(ctx, pollID, sendNotify)
	if err != nil {
		var notEnded *services.NotEndedError
		if errors.As(err, &notEnded) {
			log.Fatalf("poll %d has not ended yet, it ends %s", pollID, humanize.Time(notEnded.EndsAt))
		}
		log.Fatal(err)
	}
	printResult(os.Stdout, result)
}

func printResult(w io.Writer, result entity.PollResult) {
	fmt.Fprintf(w, "Poll #%d %q (%s)\n", result.PollID, result.Title, result.Status)
	fmt.Fprintln(w, notify.ResultsMessage(result).Body)
}
