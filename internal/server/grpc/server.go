package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/intelshare/internal/api"
	"github.com/dmitrijs2005/intelshare/internal/authz"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/server/grants"
	"google.golang.org/grpc"
)

// Authenticator opens and closes sessions.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	// Active fails once the session was logged out or has expired.
	Active(ctx context.Context, sessionID string, userID int64) error
}

// Catalog loads the entities a decision is made on.
type Catalog interface {
	LoadUser(ctx context.Context, id int64) (*models.User, error)
	LoadEvent(ctx context.Context, id int64) (*models.Event, error)
}

// GrantStore changes the grants of an event.
type GrantStore interface {
	Grant(ctx context.Context, g grants.Guard, e *models.Event, u *models.User, groupID int64, caps models.Capabilities) error
	Revoke(ctx context.Context, g grants.Guard, e *models.Event, u *models.User, groupID int64) error
}

type GRPCServer struct {
	address   string
	users     Authenticator
	catalog   Catalog
	authz     *authz.Service
	grants    GrantStore
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us Authenticator, c Catalog, az *authz.Service, gs GrantStore, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		catalog:   c,
		authz:     az,
		grants:    gs,
		jwtSecret: []byte(secretKey),
	}
}

// Register attaches the decision service to srv.
func (s *GRPCServer) Register(srv *grpc.Server) {
	api.RegisterDecisionServer(srv, s)
}

// NewServer builds a grpc.Server with the token interceptor installed.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	s.Register(srv)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
