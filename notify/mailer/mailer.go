// Package mailer delivers account lifecycle events by mail to an
// administrator address. Only creations are mailed; updates are too noisy
// for a mailbox and are left to other sinks.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/caasmo/accountlink/notify"
)

// Options configures the Notifier.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type Notifier struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) (*Notifier, error) {
	if opts.Host == "" || opts.Port == 0 {
		return nil, fmt.Errorf("mailer: smtp host and port are required")
	}
	if opts.From == "" || opts.To == "" {
		return nil, fmt.Errorf("mailer: from and to addresses are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("mailer: logger is required")
	}
	return &Notifier{opts: opts, logger: logger}, nil
}

// Send implements the notify.Notifier interface.
func (mn *Notifier) Send(ctx context.Context, e notify.Event) error {
	if e.Type != notify.AccountCreated {
		return nil
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", mn.opts.Host, mn.opts.Port),
		smtp.PlainAuth("", mn.opts.Username, mn.opts.Password, mn.opts.Host))

	mail.To(mn.opts.To)
	mail.From(mn.opts.From)
	mail.Subject("New account created from provider sign-in")
	mail.Plain().Set(fmt.Sprintf(
		"A new account was created from an identity provider sign-in.\n\n"+
			"id: %s\nlogin: %s\nemail: %s\ndisplay name: %s\ncreated: %s\n",
		e.AccountID, e.Login, e.Email, e.DisplayName, e.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")))

	// mailyak has no context support; bridge it so a cancelled caller does
	// not block on a slow SMTP server.
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mailer: failed to send account-created mail: %w", err)
		}
	}

	mn.logger.Info("mailer: sent account-created mail", "account_id", e.AccountID, "to", mn.opts.To)
	return nil
}
