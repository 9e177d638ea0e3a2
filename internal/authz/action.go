package authz

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/common"
)

// Action names a decision in audit lines and on the wire.
type Action string

const (
	ActionView           Action = "view"
	ActionModify         Action = "modify"
	ActionDelete         Action = "delete"
	ActionAdd            Action = "add"
	ActionSetGroups      Action = "set_groups"
	ActionOwner          Action = "owner"
	ActionAdmin          Action = "admin"
	ActionAdminValidate  Action = "admin_validate"
	ActionDownload       Action = "download"
	ActionChangeProperty Action = "change_property"
)

var eventActions = []Action{
	ActionView, ActionModify, ActionDelete, ActionAdd, ActionSetGroups, ActionOwner,
}

var userActions = []Action{
	ActionAdmin, ActionAdminValidate, ActionDownload,
}

// ParseAction reads an action name accepted by Check.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range append(eventActions, userActions...) {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("action %q: %w", s, common.ErrUnknownFlag)
}

// NeedsEvent reports whether the action is decided against an event.
func (a Action) NeedsEvent() bool {
	for _, known := range eventActions {
		if a == known {
			return true
		}
	}
	return false
}
