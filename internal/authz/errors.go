package authz

import (
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/common"
)

// DeniedError is a negative decision. It unwraps to
// common.ErrAuthorizationDenied.
type DeniedError struct {
	UserID  int64
	Actor   string
	EventID int64
	ItemID  int64
	Action  Action
	Reason  string
}

func (e *DeniedError) Error() string {
	s := fmt.Sprintf("user %q may not %s event %d", e.Actor, e.Action, e.EventID)
	if e.ItemID != 0 {
		s += fmt.Sprintf(" item %d", e.ItemID)
	}
	if e.Reason != "" {
		s += ": " + e.Reason
	}
	return s
}

func (e *DeniedError) Unwrap() error {
	return common.ErrAuthorizationDenied
}
