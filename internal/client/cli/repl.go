package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Check(ctx context.Context, args []string) error
	Visible(ctx context.Context, args []string) error
	Grant(ctx context.Context, args []string) error
	Revoke(ctx context.Context, args []string) error
	Invalidate(ctx context.Context, args []string) error
}

// runREPL reads commands from scanner until EOF, "exit" or "quit".
//
//	Not logged in:
//	  help, login [username], exit | quit
//
//	Logged in:
//	  check <action> [event_id]
//	  visible <event_id> <object|attribute> <item_id>
//	  grant <event_id> <group_id> <permissions>
//	  revoke <event_id> <group_id>
//	  invalidate <event_id>
//	  logout, exit | quit
//
// Command errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("intelshare%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: login, exit")
			case "login":
				_ = a.Login(ctx, args)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Please login first")
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: check, visible, grant, revoke, invalidate, logout, exit")
		case "login":
			_ = a.Login(ctx, args)
		case "check":
			_ = a.Check(ctx, args)
		case "visible":
			_ = a.Visible(ctx, args)
		case "grant":
			_ = a.Grant(ctx, args)
		case "revoke":
			_ = a.Revoke(ctx, args)
		case "invalidate":
			_ = a.Invalidate(ctx, args)
		case "logout":
			_ = a.Logout(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
