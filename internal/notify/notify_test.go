package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/entity"
)

func sampleResult() entity.PollResult {
	winner := entity.CandidateTally{CandidateID: 1, Name: "Ada", VoteCount: 1200}
	return entity.PollResult{
		PollID: 7,
		Title:  "Board election",
		Status: entity.PollStatusEnded,
		Final:  true,
		Positions: []entity.PositionResult{
			{
				PositionID: 1,
				Title:      "Chair",
				Candidates: []entity.CandidateTally{winner, {CandidateID: 2, Name: "Bob", VoteCount: 1}},
				Winner:     &winner,
			},
			{
				PositionID: 2,
				Title:      "Treasurer",
				Candidates: []entity.CandidateTally{{CandidateID: 3, Name: "Cy"}},
			},
		},
	}
}

func TestResultsMessage(t *testing.T) {
	msg := ResultsMessage(sampleResult())

	assert.Equal(t, "Results for Board election", msg.Subject)
	assert.Contains(t, msg.Body, "The results for Board election are in!")
	assert.Contains(t, msg.Body, "Chair:\nWinner: Ada with 1,200 votes\n")
	assert.Contains(t, msg.Body, "- Bob: 1 vote\n")
	assert.Contains(t, msg.Body, "Treasurer:\nNo votes cast\n")
	assert.Contains(t, msg.Body, "- Cy: 0 votes\n")
}

func TestSMTPNotifier_OneMailPerRecipient(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []string
	)
	n := NewSMTPNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)), SMTPConfig{
		Host:        "mail.local",
		Port:        2525,
		From:        "polls@example.com",
		Concurrency: 2,
	}).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "mail.local:2525", addr)
		assert.Equal(t, "polls@example.com", from)
		require.Len(t, to, 1)
		assert.True(t, strings.Contains(string(msg), "Subject: Results for Board election\r\n"))
		sent = append(sent, to[0])
		return nil
	})

	err := n.NotifyResults(context.Background(), sampleResult(), []string{"a@example.com", "b@example.com", "c@example.com"})
	require.NoError(t, err)

	sort.Strings(sent)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, sent)
}

func TestSMTPNotifier_SendError(t *testing.T) {
	n := NewSMTPNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)), SMTPConfig{Host: "mail.local", Port: 25}).
		WithSender(func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		})

	err := n.NotifyResults(context.Background(), sampleResult(), []string{"a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPNotifier_BouncedRecipientDoesNotStopOthers(t *testing.T) {
	var sent []string
	n := NewSMTPNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)), SMTPConfig{
		Host:        "mail.local",
		Port:        25,
		Concurrency: 1,
	}).WithSender(func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		if to[0] == "bounce@example.com" {
			return errors.New("550 mailbox unavailable")
		}
		sent = append(sent, to[0])
		return nil
	})

	err := n.NotifyResults(context.Background(), sampleResult(),
		[]string{"bounce@example.com", "a@example.com", "b@example.com", "c@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bounce@example.com")
	assert.Contains(t, err.Error(), "1 of 4 recipients failed")

	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, sent)
}

func TestSMTPNotifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	n := NewSMTPNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)), SMTPConfig{Host: "mail.local", Port: 25}).
		WithSender(func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return nil
		})

	err := n.NotifyResults(ctx, sampleResult(), []string{"a@example.com", "b@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestLogNotifier(t *testing.T) {
	var buf strings.Builder
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.NotifyResults(context.Background(), sampleResult(), []string{"a@example.com"}))
	assert.Contains(t, buf.String(), "Results for Board election")
}

func TestNew(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n, err := New(log, config.NotifyConfig{Driver: DriverLog})
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)

	n, err = New(log, config.NotifyConfig{Driver: DriverSMTP, SMTPHost: "mail.local", SMTPPort: 25})
	require.NoError(t, err)
	assert.IsType(t, &SMTPNotifier{}, n)

	_, err = New(log, config.NotifyConfig{Driver: DriverSMTP})
	assert.Error(t, err)

	_, err = New(log, config.NotifyConfig{Driver: "pigeon"})
	assert.Error(t, err)
}
