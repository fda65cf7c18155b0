package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	BoardService_Register_FullMethodName        = "/board.v1.BoardService/Register"
	BoardService_ListUsers_FullMethodName       = "/board.v1.BoardService/ListUsers"
	BoardService_CreateGroup_FullMethodName     = "/board.v1.BoardService/CreateGroup"
	BoardService_ListGroups_FullMethodName      = "/board.v1.BoardService/ListGroups"
	BoardService_SendMessage_FullMethodName     = "/board.v1.BoardService/SendMessage"
	BoardService_ListMessages_FullMethodName    = "/board.v1.BoardService/ListMessages"
	BoardService_DeleteMessage_FullMethodName   = "/board.v1.BoardService/DeleteMessage"
	BoardService_DeleteMessageAt_FullMethodName = "/board.v1.BoardService/DeleteMessageAt"
)

// BoardServiceClient is the client API for BoardService.
type BoardServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	CreateGroup(ctx context.Context, in *CreateGroupRequest, opts ...grpc.CallOption) (*CreateGroupResponse, error)
	ListGroups(ctx context.Context, in *ListGroupsRequest, opts ...grpc.CallOption) (*ListGroupsResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error)
	// ListMessages streams every message visible to the caller, oldest first.
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Message], error)
	DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*DeleteMessageResponse, error)
	DeleteMessageAt(ctx context.Context, in *DeleteMessageAtRequest, opts ...grpc.CallOption) (*DeleteMessageAtResponse, error)
}

type boardServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBoardServiceClient returns a client that speaks the json content-subtype.
func NewBoardServiceClient(cc grpc.ClientConnInterface) BoardServiceClient {
	return &boardServiceClient{cc}
}

func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.StaticMethod(), grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *boardServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.cc.Invoke(ctx, BoardService_Register_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.cc.Invoke(ctx, BoardService_ListUsers_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) CreateGroup(ctx context.Context, in *CreateGroupRequest, opts ...grpc.CallOption) (*CreateGroupResponse, error) {
	out := new(CreateGroupResponse)
	if err := c.cc.Invoke(ctx, BoardService_CreateGroup_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) ListGroups(ctx context.Context, in *ListGroupsRequest, opts ...grpc.CallOption) (*ListGroupsResponse, error) {
	out := new(ListGroupsResponse)
	if err := c.cc.Invoke(ctx, BoardService_ListGroups_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	out := new(SendMessageResponse)
	if err := c.cc.Invoke(ctx, BoardService_SendMessage_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Message], error) {
	stream, err := c.cc.NewStream(ctx, &BoardService_ServiceDesc.Streams[0], BoardService_ListMessages_FullMethodName, callOpts(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[ListMessagesRequest, Message]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// BoardService_ListMessagesClient is the client side of ListMessages.
type BoardService_ListMessagesClient = grpc.ServerStreamingClient[Message]

func (c *boardServiceClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*DeleteMessageResponse, error) {
	out := new(DeleteMessageResponse)
	if err := c.cc.Invoke(ctx, BoardService_DeleteMessage_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) DeleteMessageAt(ctx context.Context, in *DeleteMessageAtRequest, opts ...grpc.CallOption) (*DeleteMessageAtResponse, error) {
	out := new(DeleteMessageAtResponse)
	if err := c.cc.Invoke(ctx, BoardService_DeleteMessageAt_FullMethodName, in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// BoardServiceServer is the server API for BoardService. Implementations
// must embed UnimplementedBoardServiceServer.
type BoardServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	CreateGroup(context.Context, *CreateGroupRequest) (*CreateGroupResponse, error)
	ListGroups(context.Context, *ListGroupsRequest) (*ListGroupsResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	ListMessages(*ListMessagesRequest, grpc.ServerStreamingServer[Message]) error
	DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error)
	DeleteMessageAt(context.Context, *DeleteMessageAtRequest) (*DeleteMessageAtResponse, error)
	mustEmbedUnimplementedBoardServiceServer()
}

// UnimplementedBoardServiceServer answers every call with codes.Unimplemented.
type UnimplementedBoardServiceServer struct{}

func (UnimplementedBoardServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedBoardServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedBoardServiceServer) CreateGroup(context.Context, *CreateGroupRequest) (*CreateGroupResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateGroup not implemented")
}
func (UnimplementedBoardServiceServer) ListGroups(context.Context, *ListGroupsRequest) (*ListGroupsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListGroups not implemented")
}
func (UnimplementedBoardServiceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedBoardServiceServer) ListMessages(*ListMessagesRequest, grpc.ServerStreamingServer[Message]) error {
	return status.Error(codes.Unimplemented, "method ListMessages not implemented")
}
func (UnimplementedBoardServiceServer) DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMessage not implemented")
}
func (UnimplementedBoardServiceServer) DeleteMessageAt(context.Context, *DeleteMessageAtRequest) (*DeleteMessageAtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMessageAt not implemented")
}
func (UnimplementedBoardServiceServer) mustEmbedUnimplementedBoardServiceServer() {}

// BoardService_ListMessagesServer is the server side of ListMessages.
type BoardService_ListMessagesServer = grpc.ServerStreamingServer[Message]

// RegisterBoardServiceServer registers srv on s.
func RegisterBoardServiceServer(s grpc.ServiceRegistrar, srv BoardServiceServer) {
	s.RegisterService(&BoardService_ServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler.
func unary[Req any, Res any](fullMethod string, call func(BoardServiceServer, context.Context, *Req) (*Res, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BoardServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BoardServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _BoardService_ListMessages_Handler(srv any, stream grpc.ServerStream) error {
	m := new(ListMessagesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BoardServiceServer).ListMessages(m, &grpc.GenericServerStream[ListMessagesRequest, Message]{ServerStream: stream})
}

// BoardService_ServiceDesc is the grpc.ServiceDesc for BoardService.
var BoardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "board.v1.BoardService",
	HandlerType: (*BoardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unary(BoardService_Register_FullMethodName, BoardServiceServer.Register),
		},
		{
			MethodName: "ListUsers",
			Handler:    unary(BoardService_ListUsers_FullMethodName, BoardServiceServer.ListUsers),
		},
		{
			MethodName: "CreateGroup",
			Handler:    unary(BoardService_CreateGroup_FullMethodName, BoardServiceServer.CreateGroup),
		},
		{
			MethodName: "ListGroups",
			Handler:    unary(BoardService_ListGroups_FullMethodName, BoardServiceServer.ListGroups),
		},
		{
			MethodName: "SendMessage",
			Handler:    unary(BoardService_SendMessage_FullMethodName, BoardServiceServer.SendMessage),
		},
		{
			MethodName: "DeleteMessage",
			Handler:    unary(BoardService_DeleteMessage_FullMethodName, BoardServiceServer.DeleteMessage),
		},
		{
			MethodName: "DeleteMessageAt",
			Handler:    unary(BoardService_DeleteMessageAt_FullMethodName, BoardServiceServer.DeleteMessageAt),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ListMessages",
			Handler:       _BoardService_ListMessages_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "board/v1/board.go",
}
