package notify

import (
	"context"
	"log/slog"

	"github.com/14kear/online-polls/internal/entity"
)

// LogNotifier writes the results message to the logger instead of sending
// mail. Used for local runs.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyResults(_ context.Context, result entity.PollResult, recipients []string) error {
	msg := ResultsMessage(result)

	n.log.Info("results notification",
		slog.Int64("pollID", result.PollID),
		slog.String("subject", msg.Subject),
		slog.Any("to", recipients),
		slog.String("body", msg.Body),
	)
	return nil
}
