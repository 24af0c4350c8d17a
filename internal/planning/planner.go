// Package planning projects component stock, checks and estimates order fulfilment and
// executes future orders against inventory.
package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gauravv-jainn/oneup-sub000/internal/store"
)

// DefaultLeadDays is the wait assumed for a short component with neither a declared arrival
// time nor any received procurement history.
const DefaultLeadDays = 7

// AuditSink records what happened after a change has committed. It must not fail the caller.
type AuditSink interface {
	Log(ctx context.Context, actor, action, module, recordID, summary string, details any)
}

type nopSink struct{}

func (nopSink) Log(context.Context, string, string, string, string, string, any) {}

// Options tune a Planner.
type Options struct {
	DefaultLeadDays int
	// AllowNegativeStock lets execution drive stock below zero with a warning instead of
	// rejecting the order.
	AllowNegativeStock bool
	Now                func() time.Time
}

// Planner runs the projection, availability, estimation and execution operations.
type Planner struct {
	Store *store.Store
	Log   *zap.Logger
	Audit AuditSink

	Now                func() time.Time
	DefaultLeadDays    int
	AllowNegativeStock bool
}

// New builds a Planner. A nil logger or sink disables that output.
func New(s *store.Store, log *zap.Logger, sink AuditSink, opts Options) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = nopSink{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLeadDays <= 0 {
		opts.DefaultLeadDays = DefaultLeadDays
	}
	return &Planner{
		Store:              s,
		Log:                log,
		Audit:              sink,
		Now:                opts.Now,
		DefaultLeadDays:    opts.DefaultLeadDays,
		AllowNegativeStock: opts.AllowNegativeStock,
	}
}

// inTx runs fn in a store transaction. A failure that carries none of the planner's error
// kinds came from the store mid-transaction and is reported as ErrTransaction.
func (p *Planner) inTx(ctx context.Context, fn func(tx *store.Tx) error) error {
	err := p.Store.WithTx(ctx, fn)
	if err == nil || hasKind(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransaction, err)
}

func hasKind(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrTransaction, ErrConflict, ErrInvalidInput,
		ErrAlreadyCompleted, ErrOrderLocked, ErrInsufficientStock} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func (p *Planner) today() time.Time {
	now := p.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(store.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}
