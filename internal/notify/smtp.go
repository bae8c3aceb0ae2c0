package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"golang.org/x/sync/errgroup"

	"github.com/14kear/online-polls/internal/entity"
)

type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	Concurrency int
}

// SMTPNotifier sends one mail per recipient so addresses are never
// disclosed to other voters.
type SMTPNotifier struct {
	log  *slog.Logger
	cfg  SMTPConfig
	auth smtp.Auth
	send SendFunc
}

func NewSMTPNotifier(log *slog.Logger, cfg SMTPConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &SMTPNotifier{log: log, cfg: cfg, auth: auth, send: smtp.SendMail}
}

// WithSender replaces the transport, for tests.
func (n *SMTPNotifier) WithSender(send SendFunc) *SMTPNotifier {
	n.send = send
	return n
}

// NotifyResults mails every recipient. A failed recipient does not stop the
// others; all failures are returned together.
func (n *SMTPNotifier) NotifyResults(ctx context.Context, result entity.PollResult, recipients []string) error {
	const op = "notify.SMTPNotifier.NotifyResults"

	msg := ResultsMessage(result)
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(n.cfg.Concurrency)

	for _, to := range recipients {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = n.send(addr, n.auth, n.cfg.From, []string{to}, compose(n.cfg.From, to, msg))
			}
			if err != nil {
				n.log.Warn("failed to send results mail", slog.String("to", to), sl.Err(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("%s: %d of %d recipients failed: %w", op, len(errs), len(recipients), errors.Join(errs...))
	}
	return nil
}

func compose(from, to string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
