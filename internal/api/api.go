// Package api declares the decision service shared by the server and its
// clients. Messages are protobuf well-known types, so no generated code is
// needed: requests are Structs with the field names below. The wire contract
// is written down in api/decision.proto.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "intelshare.authz.DecisionService"

// Request and response field names.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldAction      = "action"
	FieldEventID     = "event_id"
	FieldItemID      = "item_id"
	FieldItemKind    = "item_kind"
	FieldGroupID     = "group_id"
	FieldPermissions = "permissions"
)

// FullMethod returns the wire name of a method of the service.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// DecisionServer is implemented by the server.
type DecisionServer interface {
	Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Logout(ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error)
	Check(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	ItemVisible(ctx context.Context, in *structpb.Struct) (*wrapperspb.BoolValue, error)
	Grant(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Revoke(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
	Invalidate(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

func unary[Req any, Resp any](method string, newReq func() Req, call func(DecisionServer, context.Context, Req) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DecisionServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(DecisionServer), ctx, req.(Req))
			})
		},
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

// DecisionServiceDesc describes the service for grpc.Server.RegisterService.
var DecisionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DecisionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", newStruct, DecisionServer.Login),
		unary("Logout", newEmpty, DecisionServer.Logout),
		unary("Check", newStruct, DecisionServer.Check),
		unary("ItemVisible", newStruct, DecisionServer.ItemVisible),
		unary("Grant", newStruct, DecisionServer.Grant),
		unary("Revoke", newStruct, DecisionServer.Revoke),
		unary("Invalidate", newStruct, DecisionServer.Invalidate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "intelshare/authz/decision.proto",
}

// RegisterDecisionServer attaches srv to s.
func RegisterDecisionServer(s grpc.ServiceRegistrar, srv DecisionServer) {
	s.RegisterService(&DecisionServiceDesc, srv)
}

// DecisionClient calls the service over a connection.
type DecisionClient struct {
	cc grpc.ClientConnInterface
}

func NewDecisionClient(cc grpc.ClientConnInterface) *DecisionClient {
	return &DecisionClient{cc: cc}
}

func (c *DecisionClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod("Login"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DecisionClient) Logout(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("Logout"), &emptypb.Empty{}, new(emptypb.Empty), opts...)
}

func (c *DecisionClient) Check(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("Check"), in, new(emptypb.Empty), opts...)
}

func (c *DecisionClient) ItemVisible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, FullMethod("ItemVisible"), in, out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *DecisionClient) Grant(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("Grant"), in, new(emptypb.Empty), opts...)
}

func (c *DecisionClient) Revoke(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("Revoke"), in, new(emptypb.Empty), opts...)
}

func (c *DecisionClient) Invalidate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, FullMethod("Invalidate"), in, new(emptypb.Empty), opts...)
}
