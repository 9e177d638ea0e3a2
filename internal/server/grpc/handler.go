package grpc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/intelshare/internal/api"
	"github.com/dmitrijs2005/intelshare/internal/authz"
	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/server/catalog"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, err := api.String(req, api.FieldUsername)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}
	password, err := api.String(req, api.FieldPassword)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	token, err := s.users.Login(ctx, username, password)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldAccessToken: structpb.NewStringValue(token),
	}}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, claims.SessionID); err != nil {
		return nil, s.toStatus(ctx, "Logout", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Check(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	name, err := api.String(req, api.FieldAction)
	if err != nil {
		return nil, s.toStatus(ctx, "Check", err)
	}
	action, err := authz.ParseAction(name)
	if err != nil {
		return nil, s.toStatus(ctx, "Check", err)
	}

	guard, u, err := s.caller(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "Check", err)
	}

	if !action.NeedsEvent() {
		switch action {
		case authz.ActionAdmin:
			err = guard.CheckAdmin(ctx, u)
		case authz.ActionAdminValidate:
			err = guard.CheckAdminValidate(ctx, u)
		case authz.ActionDownload:
			err = guard.CheckDownload(ctx, u)
		}
		if err != nil {
			return nil, s.toStatus(ctx, "Check", err)
		}
		return &emptypb.Empty{}, nil
	}

	e, err := s.event(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, "Check", err)
	}

	switch action {
	case authz.ActionView:
		err = guard.CheckView(ctx, e, u)
	case authz.ActionModify:
		err = guard.CheckModify(ctx, e, u)
	case authz.ActionDelete:
		err = guard.CheckDelete(ctx, e, u)
	case authz.ActionAdd:
		err = guard.CheckAddContent(ctx, e, u)
	case authz.ActionSetGroups:
		err = guard.CheckSetGroups(ctx, e, u)
	case authz.ActionOwner:
		err = guard.CheckOwner(ctx, e, u)
	}
	if err != nil {
		return nil, s.toStatus(ctx, "Check", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ItemVisible(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	kindName, err := api.OptionalString(req, api.FieldItemKind)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}
	kind, err := catalog.ParseItemKind(kindName)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}
	itemID, err := api.ID(req, api.FieldItemID)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}

	guard, u, err := s.caller(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}
	e, err := s.event(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}
	item, err := catalog.FindItem(e, kind, itemID)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}

	visible, err := guard.IsItemVisible(ctx, item, e, u)
	if err != nil {
		return nil, s.toStatus(ctx, "ItemVisible", err)
	}
	return wrapperspb.Bool(visible), nil
}

func (s *GRPCServer) Grant(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	groupID, err := api.ID(req, api.FieldGroupID)
	if err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}
	names, err := api.Names(req, api.FieldPermissions)
	if err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}
	caps, err := parseCapabilities(names)
	if err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}

	guard, u, err := s.caller(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}
	e, err := s.event(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}

	if err := s.grants.Grant(ctx, guard, e, u, groupID, caps); err != nil {
		return nil, s.toStatus(ctx, "Grant", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Revoke(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	groupID, err := api.ID(req, api.FieldGroupID)
	if err != nil {
		return nil, s.toStatus(ctx, "Revoke", err)
	}

	guard, u, err := s.caller(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "Revoke", err)
	}
	e, err := s.event(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, "Revoke", err)
	}

	if err := s.grants.Revoke(ctx, guard, e, u, groupID); err != nil {
		return nil, s.toStatus(ctx, "Revoke", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Invalidate(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	eventID, err := api.ID(req, api.FieldEventID)
	if err != nil {
		return nil, s.toStatus(ctx, "Invalidate", err)
	}
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Guard(claims.SessionID).InvalidateEventPermissions(ctx, eventID); err != nil {
		return nil, s.toStatus(ctx, "Invalidate", err)
	}
	return &emptypb.Empty{}, nil
}

// caller returns the session guard and the user behind the access token.
func (s *GRPCServer) caller(ctx context.Context) (*authz.Guard, *models.User, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.catalog.LoadUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return s.authz.Guard(claims.SessionID), u, nil
}

func (s *GRPCServer) event(ctx context.Context, req *structpb.Struct) (*models.Event, error) {
	id, err := api.ID(req, api.FieldEventID)
	if err != nil {
		return nil, err
	}
	return s.catalog.LoadEvent(ctx, id)
}

// parseCapabilities accepts capability names or one decimal code.
func parseCapabilities(names []string) (models.Capabilities, error) {
	caps := models.NoCapabilities
	if len(names) == 1 {
		if _, err := strconv.ParseUint(names[0], 10, properties.MaxBits); err == nil {
			caps, err := properties.Parse[properties.Capability](names[0])
			if err != nil {
				return 0, err
			}
			if caps.Code()&^models.AllCapabilities.Code() != 0 {
				return 0, fmt.Errorf("%w: permissions code %s", common.ErrUnknownFlag, names[0])
			}
			return caps, nil
		}
	}
	for _, name := range names {
		c, err := properties.Lookup[properties.Capability](name)
		if err != nil {
			return 0, err
		}
		caps = caps.With(c, true)
	}
	return caps, nil
}
