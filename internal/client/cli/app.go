// Package cli is an interactive console for operators of the decision
// service: log in, ask for decisions and manage event grants.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/intelshare/internal/client/client"
	"github.com/dmitrijs2005/intelshare/internal/client/config"
)

// Client is the part of client.GRPCClient the console uses.
type Client interface {
	Close() error
	LoggedIn() bool
	Login(ctx context.Context, userName string, password []byte) error
	Logout(ctx context.Context) error
	Check(ctx context.Context, action string, eventID int64) error
	ItemVisible(ctx context.Context, eventID int64, kind string, itemID int64) (bool, error)
	Grant(ctx context.Context, eventID, groupID int64, permissions []string) error
	Revoke(ctx context.Context, eventID, groupID int64) error
	Invalidate(ctx context.Context, eventID int64) error
}

type App struct {
	config   *config.Config
	client   Client
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewDecisionClientService(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to the intelshare console (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// call runs fn under the configured request timeout.
func (a *App) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	return fn(ctx)
}
