package notify

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Type int

const (
	AccountCreated Type = iota
	AccountUpdated
)

func (t Type) String() string {
	switch t {
	case AccountCreated:
		return "AccountCreated"
	case AccountUpdated:
		return "AccountUpdated"
	default:
		return "Unknown"
	}
}

// Event describes an account lifecycle change produced by the reconciler.
// It carries the stored account id and the canonical fields that were
// written, never the generated password.
type Event struct {
	Timestamp   time.Time
	Type        Type
	AccountID   string
	Login       string
	Email       string
	DisplayName string
}

// Notifier defines the contract for delivering lifecycle events.
// Events are fire-and-forget from the reconciler's point of view: a failed
// delivery is logged, never propagated to the sign-in flow.
// Implementations MUST be safe for concurrent use by multiple goroutines.
type Notifier interface {
	Send(ctx context.Context, e Event) error
}

// Multi fans an event out to several notifiers concurrently and reports the
// first delivery error.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, e Event) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, n := range m {
		g.Go(func() error {
			return n.Send(ctx, e)
		})
	}
	return g.Wait()
}
