package main

import (
	"context"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	v1 "github.com/PaulBabatuyi/msgboard-gRPC/proto/board/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Register issues (or re-issues) the identity for an email and returns a
// session token for it. Registration is idempotent.
func (s *Server) Register(ctx context.Context, req *v1.RegisterRequest) (*v1.RegisterResponse, error) {
	user, isNew, err := s.board.Register(ctx, req.GetEmail())
	if err != nil {
		return nil, s.toStatus("Register", err)
	}

	token, expiresAt, err := s.auth.GenerateToken(user.UserID, user.Email)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to generate token: %v", err)
	}

	return &v1.RegisterResponse{
		Token:      token,
		UserId:     user.UserID,
		IsNew:      isNew,
		FirstLogin: timestamppb.New(user.FirstLogin),
		ExpiresAt:  timestamppb.New(expiresAt),
	}, nil
}

// ListUsers returns the directory of registered identities.
func (s *Server) ListUsers(ctx context.Context, _ *v1.ListUsersRequest) (*v1.ListUsersResponse, error) {
	users, err := s.board.Users(ctx)
	if err != nil {
		return nil, s.toStatus("ListUsers", err)
	}
	out := &v1.ListUsersResponse{Users: make([]*v1.User, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, &v1.User{
			Email:      u.Email,
			UserId:     u.UserID,
			FirstLogin: timestamppb.New(u.FirstLogin),
		})
	}
	return out, nil
}

// CreateGroup creates a group owned by the caller.
func (s *Server) CreateGroup(ctx context.Context, req *v1.CreateGroupRequest) (*v1.CreateGroupResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	g, err := s.board.CreateGroup(ctx, req.GetName(), claims.Email, req.GetMembers())
	if err != nil {
		return nil, s.toStatus("CreateGroup", err)
	}
	return &v1.CreateGroupResponse{Group: groupToWire(g)}, nil
}

// ListGroups returns the groups the caller belongs to.
func (s *Server) ListGroups(ctx context.Context, _ *v1.ListGroupsRequest) (*v1.ListGroupsResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.board.GroupsFor(ctx, claims.Email)
	if err != nil {
		return nil, s.toStatus("ListGroups", err)
	}
	out := &v1.ListGroupsResponse{Groups: make([]*v1.Group, 0, len(groups))}
	for _, g := range groups {
		out.Groups = append(out.Groups, groupToWire(g))
	}
	return out, nil
}

// SendMessage posts a message from the caller.
func (s *Server) SendMessage(ctx context.Context, req *v1.SendMessageRequest) (*v1.SendMessageResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	to, err := board.ParseRecipient(req.GetRecipient().GetKind(), req.GetRecipient().GetAddress())
	if err != nil {
		return nil, s.toStatus("SendMessage", err)
	}
	m, err := s.board.Send(ctx, claims.Email, to, req.GetText())
	if err != nil {
		return nil, s.toStatus("SendMessage", err)
	}
	// Position is only meaningful inside a ListMessages snapshot.
	wire := messageToWire(m)
	wire.Position = -1
	return &v1.SendMessageResponse{Message: wire}, nil
}

// ListMessages streams every message visible to the caller, oldest first.
func (s *Server) ListMessages(_ *v1.ListMessagesRequest, stream grpc.ServerStreamingServer[v1.Message]) error {
	claims, err := requireClaims(stream.Context())
	if err != nil {
		return err
	}
	msgs, err := s.board.MessagesFor(stream.Context(), claims.Email)
	if err != nil {
		return s.toStatus("ListMessages", err)
	}
	for _, m := range msgs {
		if err := stream.Send(messageToWire(m)); err != nil {
			return status.Errorf(codes.Internal, "failed to send message: %v", err)
		}
	}
	return nil
}

// DeleteMessage removes one of the caller's messages by id.
func (s *Server) DeleteMessage(ctx context.Context, req *v1.DeleteMessageRequest) (*v1.DeleteMessageResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.board.DeleteMessage(ctx, claims.Email, req.GetMsgId()); err != nil {
		return nil, s.toStatus("DeleteMessage", err)
	}
	return &v1.DeleteMessageResponse{}, nil
}

// DeleteMessageAt removes one of the caller's messages by its position in a
// ListMessages snapshot. The fingerprint guards against a shifted log.
func (s *Server) DeleteMessageAt(ctx context.Context, req *v1.DeleteMessageAtRequest) (*v1.DeleteMessageAtResponse, error) {
	claims, err := requireClaims(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.board.DeleteMessageAt(ctx, claims.Email, int(req.GetPosition()), req.GetFingerprint()); err != nil {
		return nil, s.toStatus("DeleteMessageAt", err)
	}
	return &v1.DeleteMessageAtResponse{}, nil
}

func groupToWire(g board.Group) *v1.Group {
	return &v1.Group{
		GroupId:   g.ID,
		Name:      g.Name,
		Creator:   g.Creator,
		Members:   g.Members,
		CreatedAt: timestamppb.New(g.CreatedAt),
	}
}

func messageToWire(m board.Message) *v1.Message {
	return &v1.Message{
		MsgId:       m.ID,
		Position:    int32(m.Position),
		Fingerprint: m.Fingerprint(),
		SenderEmail: m.SenderEmail,
		SenderId:    m.SenderID,
		Text:        m.Text,
		Recipient:   &v1.Recipient{Kind: string(m.Recipient.Kind), Address: m.Recipient.Address},
		SentAt:      timestamppb.New(m.Timestamp),
	}
}
