// Package audit records authorization decisions. Every allow and deny the
// decision engine makes is handed to a Sink before the result returns.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Record is one authorization decision.
type Record struct {
	Time      time.Time
	SessionID string
	UserID    int64 // 0 for the anonymous caller
	Actor     string
	Action    string
	EventID   int64 // 0 for checks on the user alone
	ItemID    int64 // 0 when the decision is about the event itself
	Allowed   bool
	Reason    string
}

// String renders the record as a single audit line.
func (r Record) String() string {
	var s string
	if r.Allowed {
		s = fmt.Sprintf("User %q can perform action %q", r.Actor, r.Action)
	} else {
		s = fmt.Sprintf("User %q is not allowed to perform action %q", r.Actor, r.Action)
	}
	if r.EventID != 0 {
		s += fmt.Sprintf(" on event %q", fmt.Sprint(r.EventID))
	}
	if r.ItemID != 0 {
		s += fmt.Sprintf(" for item %d", r.ItemID)
	}
	if r.Reason != "" {
		s += " (" + r.Reason + ")"
	}
	return s
}

// Sink receives decisions.
type Sink interface {
	Write(ctx context.Context, r Record) error
}

type multi []Sink

// Multi fans a record out to every sink. All sinks are written even when one
// fails; the failures are joined.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Write(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Write(context.Context, Record) error { return nil }
