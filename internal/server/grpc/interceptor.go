package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/intelshare/internal/api"
	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

var publicMethods = map[string]bool{
	api.FullMethod("Login"): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if err := s.users.Active(ctx, claims.SessionID, claims.UserID); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "session ended")
		}
		return nil, s.toStatus(ctx, info.FullMethod, err)
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = logging.ContextWith(ctx, "session", claims.SessionID, "user_id", claims.UserID)

	return handler(ctx, req)
}

func claimsFrom(ctx context.Context) (*auth.Claims, error) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || c == nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return c, nil
}
