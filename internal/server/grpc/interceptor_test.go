package grpc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/intelshare/internal/api"
	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// liveSessions answers Active from a fixed session to user map.
type liveSessions struct {
	live map[string]int64
	err  error
}

func (l liveSessions) Login(context.Context, string, string) (string, error) { return "", nil }

func (l liveSessions) Logout(context.Context, string) error { return nil }

func (l liveSessions) Active(_ context.Context, sessionID string, userID int64) error {
	if l.err != nil {
		return l.err
	}
	if uid, ok := l.live[sessionID]; !ok || uid != userID {
		return common.ErrorUnauthorized
	}
	return nil
}

func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    logging.Nop,
		jwtSecret: []byte(secret),
		users:     liveSessions{live: map[string]int64{"sess-1": 42}},
	}
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestInterceptor_LoginAllowedWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Login")}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	for _, method := range []string{"Check", "ItemVisible", "Grant", "Revoke", "Invalidate", "Logout"} {
		info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod(method)}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			t.Fatalf("%s: handler must not be called", method)
			return nil, nil
		}

		_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.Unauthenticated {
			t.Fatalf("%s: want Unauthenticated, got %v", method, err)
		}
		if st.Message() != "missing token" {
			t.Fatalf("%s: unexpected message: %q", method, st.Message())
		}
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Check")}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not be called")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withToken("not-a-jwt"), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}

	other, err := auth.GenerateToken(1, "sess", []byte("other-secret"), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, err = s.accessTokenInterceptor(withToken(other), nil, info, h)
	if st, _ := status.FromError(err); st.Code() != codes.Unauthenticated || st.Message() != "invalid token" {
		t.Fatalf("want invalid token, got %v", err)
	}
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Check")}

	tok, err := auth.GenerateToken(1, "sess", []byte("secret"), -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = s.accessTokenInterceptor(withToken(tok), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	})
	if st, _ := status.FromError(err); st.Code() != codes.Unauthenticated || st.Message() != "token expired" {
		t.Fatalf("want token expired, got %v", err)
	}
}

func TestInterceptor_ValidTokenPutsClaimsInContext(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Check")}

	tok, err := auth.GenerateToken(42, "sess-1", []byte("secret"), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got *auth.Claims
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		c, err := claimsFrom(ctx)
		if err != nil {
			return nil, err
		}
		got = c
		return "ok", nil
	}

	if _, err := s.accessTokenInterceptor(withToken(tok), nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.UserID != 42 || got.SessionID != "sess-1" {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestInterceptor_EndedSession(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Check")}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not be called")
		return nil, nil
	}

	for _, tc := range []struct {
		uid int64
		sid string
	}{
		{42, "sess-gone"},
		{7, "sess-1"},
	} {
		tok, err := auth.GenerateToken(tc.uid, tc.sid, []byte("secret"), time.Minute)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		_, err = s.accessTokenInterceptor(withToken(tok), nil, info, h)
		if st, _ := status.FromError(err); st.Code() != codes.Unauthenticated || st.Message() != "session ended" {
			t.Fatalf("%s/%d: want session ended, got %v", tc.sid, tc.uid, err)
		}
	}
}

func TestInterceptor_SessionLookupFails(t *testing.T) {
	s := newTestServer("secret")
	s.users = liveSessions{err: fmt.Errorf("%w: redis down", common.ErrorInternal)}
	info := &grpc.UnaryServerInfo{FullMethod: api.FullMethod("Check")}

	tok, err := auth.GenerateToken(42, "sess-1", []byte("secret"), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, err = s.accessTokenInterceptor(withToken(tok), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler must not be called")
		return nil, nil
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", err)
	}
}

func TestClaimsFrom_Missing(t *testing.T) {
	if _, err := claimsFrom(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}
}
