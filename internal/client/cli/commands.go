package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errUsage = errors.New("usage")

func parseID(s, name string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errUsage, name)
	}
	return id, nil
}

func (a *App) report(err error) error {
	if err != nil {
		fmt.Fprintln(a.out, "error:", err)
	}
	return err
}

// Login opens a session: login [username]. The password is always read
// from the terminal.
func (a *App) Login(ctx context.Context, args []string) error {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		name, err := getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return a.report(err)
		}
		userName = name
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(err)
	}
	defer wipe(password)

	err = a.call(ctx, func(ctx context.Context) error {
		return a.client.Login(ctx, userName, password)
	})
	if err != nil {
		return a.report(err)
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	err := a.call(ctx, a.client.Logout)
	a.userName = ""
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Check asks for one decision: check <action> [event_id].
func (a *App) Check(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return a.report(fmt.Errorf("%w: check <action> [event_id]", errUsage))
	}
	var eventID int64
	if len(args) == 2 {
		id, err := parseID(args[1], "event_id")
		if err != nil {
			return a.report(err)
		}
		eventID = id
	}

	err := a.call(ctx, func(ctx context.Context) error {
		return a.client.Check(ctx, args[0], eventID)
	})
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "allowed")
	return nil
}

// Visible reports item visibility: visible <event_id> <object|attribute> <item_id>.
func (a *App) Visible(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return a.report(fmt.Errorf("%w: visible <event_id> <object|attribute> <item_id>", errUsage))
	}
	eventID, err := parseID(args[0], "event_id")
	if err != nil {
		return a.report(err)
	}
	itemID, err := parseID(args[2], "item_id")
	if err != nil {
		return a.report(err)
	}

	var visible bool
	err = a.call(ctx, func(ctx context.Context) error {
		var err error
		visible, err = a.client.ItemVisible(ctx, eventID, args[1], itemID)
		return err
	})
	if err != nil {
		return a.report(err)
	}
	if visible {
		fmt.Fprintln(a.out, "visible")
	} else {
		fmt.Fprintln(a.out, "hidden")
	}
	return nil
}

// Grant stores a grant: grant <event_id> <group_id> <can_view,can_add,...>.
func (a *App) Grant(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return a.report(fmt.Errorf("%w: grant <event_id> <group_id> <permission>[,<permission>...]", errUsage))
	}
	eventID, err := parseID(args[0], "event_id")
	if err != nil {
		return a.report(err)
	}
	groupID, err := parseID(args[1], "group_id")
	if err != nil {
		return a.report(err)
	}
	var perms []string
	for _, arg := range args[2:] {
		for _, p := range strings.Split(arg, ",") {
			if p = strings.TrimSpace(p); p != "" {
				perms = append(perms, p)
			}
		}
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.client.Grant(ctx, eventID, groupID, perms)
	})
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "granted")
	return nil
}

// Revoke removes a grant: revoke <event_id> <group_id>.
func (a *App) Revoke(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.report(fmt.Errorf("%w: revoke <event_id> <group_id>", errUsage))
	}
	eventID, err := parseID(args[0], "event_id")
	if err != nil {
		return a.report(err)
	}
	groupID, err := parseID(args[1], "group_id")
	if err != nil {
		return a.report(err)
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.client.Revoke(ctx, eventID, groupID)
	})
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "revoked")
	return nil
}

// Invalidate drops the session's cached permissions: invalidate <event_id>.
func (a *App) Invalidate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.report(fmt.Errorf("%w: invalidate <event_id>", errUsage))
	}
	eventID, err := parseID(args[0], "event_id")
	if err != nil {
		return a.report(err)
	}

	err = a.call(ctx, func(ctx context.Context) error {
		return a.client.Invalidate(ctx, eventID)
	})
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "invalidated")
	return nil
}
