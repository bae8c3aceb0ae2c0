// Package notify delivers final poll results to the voters who took part.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/entity"
)

const (
	DriverLog  = "log"
	DriverSMTP = "smtp"
)

type Notifier interface {
	NotifyResults(ctx context.Context, result entity.PollResult, recipients []string) error
}

// New picks the notifier named by cfg.Driver.
func New(log *slog.Logger, cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Driver {
	case DriverLog, "":
		return NewLogNotifier(log), nil
	case DriverSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("notify: smtp driver needs smtp_host")
		}
		return NewSMTPNotifier(log, SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			From:        cfg.From,
			Concurrency: cfg.Concurrency,
		}), nil
	}
	return nil, fmt.Errorf("notify: unknown driver %q", cfg.Driver)
}

type Message struct {
	Subject string
	Body    string
}

// ResultsMessage renders the results of a poll as a plain-text message.
func ResultsMessage(result entity.PollResult) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "The results for %s are in!\n", result.Title)

	for _, position := range result.Positions {
		fmt.Fprintf(&b, "\n%s:\n", position.Title)

		if position.Winner == nil {
			b.WriteString("No votes cast\n")
		} else {
			fmt.Fprintf(&b, "Winner: %s with %s\n", position.Winner.Name, votes(position.Winner.VoteCount))
		}

		if len(position.Candidates) > 0 {
			b.WriteString("All candidates:\n")
		}
		for _, c := range position.Candidates {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, votes(c.VoteCount))
		}
	}

	return Message{
		Subject: "Results for " + result.Title,
		Body:    b.String(),
	}
}

func votes(n int64) string {
	if n == 1 {
		return "1 vote"
	}
	return humanize.Comma(n) + " votes"
}
