// Package client talks to the decision service over gRPC and keeps the
// session token between calls.
package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/api"
	"github.com/dmitrijs2005/intelshare/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// decisionAPI is the generated-style client surface; tests replace it.
type decisionAPI interface {
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Logout(ctx context.Context, opts ...grpc.CallOption) error
	Check(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error
	ItemVisible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (bool, error)
	Grant(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error
	Revoke(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error
	Invalidate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      decisionAPI
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewDecisionClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewDecisionClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.accessToken != ""
}

func (s *GRPCClient) Login(ctx context.Context, userName string, password []byte) error {

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldUsername: structpb.NewStringValue(userName),
		api.FieldPassword: structpb.NewStringValue(string(password)),
	}}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	token := resp.GetFields()[api.FieldAccessToken].GetStringValue()
	if token == "" {
		return fmt.Errorf("login: %w", ErrUnauthorized)
	}
	s.accessToken = token

	return nil
}

// Logout ends the server session. The local token is dropped even when the
// call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	defer func() { s.accessToken = "" }()
	return s.mapError(s.client.Logout(ctx))
}

func (s *GRPCClient) Check(ctx context.Context, action string, eventID int64) error {
	fields := map[string]*structpb.Value{
		api.FieldAction: structpb.NewStringValue(action),
	}
	if eventID > 0 {
		fields[api.FieldEventID] = structpb.NewNumberValue(float64(eventID))
	}
	return s.mapError(s.client.Check(ctx, &structpb.Struct{Fields: fields}))
}

func (s *GRPCClient) ItemVisible(ctx context.Context, eventID int64, kind string, itemID int64) (bool, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldEventID:  structpb.NewNumberValue(float64(eventID)),
		api.FieldItemID:   structpb.NewNumberValue(float64(itemID)),
		api.FieldItemKind: structpb.NewStringValue(kind),
	}}
	ok, err := s.client.ItemVisible(ctx, req)
	if err != nil {
		return false, s.mapError(err)
	}
	return ok, nil
}

func (s *GRPCClient) Grant(ctx context.Context, eventID, groupID int64, permissions []string) error {
	names := make([]*structpb.Value, 0, len(permissions))
	for _, p := range permissions {
		names = append(names, structpb.NewStringValue(p))
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldEventID:     structpb.NewNumberValue(float64(eventID)),
		api.FieldGroupID:     structpb.NewNumberValue(float64(groupID)),
		api.FieldPermissions: structpb.NewListValue(&structpb.ListValue{Values: names}),
	}}
	return s.mapError(s.client.Grant(ctx, req))
}

func (s *GRPCClient) Revoke(ctx context.Context, eventID, groupID int64) error {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldEventID: structpb.NewNumberValue(float64(eventID)),
		api.FieldGroupID: structpb.NewNumberValue(float64(groupID)),
	}}
	return s.mapError(s.client.Revoke(ctx, req))
}

func (s *GRPCClient) Invalidate(ctx context.Context, eventID int64) error {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldEventID: structpb.NewNumberValue(float64(eventID)),
	}}
	return s.mapError(s.client.Invalidate(ctx, req))
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrDenied, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrBadRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
