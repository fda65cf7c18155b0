package main

import (
	"context"
	"errors"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/auth"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	v1 "github.com/PaulBabatuyi/msgboard-gRPC/proto/board/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements the board service on top of board.Service.
type Server struct {
	v1.UnimplementedBoardServiceServer

	board  *board.Service
	auth   *auth.JWTManager
	logger *zap.Logger
}

// newServer returns a ready-to-use Server.
func newServer(svc *board.Service, authMgr *auth.JWTManager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{board: svc, auth: authMgr, logger: logger}
}

// registerService registers the BoardService on the given gRPC server.
func registerService(s *grpc.Server, srv *Server) {
	v1.RegisterBoardServiceServer(s, srv)
}

// toStatus maps a core error onto a gRPC status and logs it. A cancelled or
// expired request context keeps its own code. Storage failures are checked
// next so a wrapped validation error inside a storage failure still surfaces
// as Internal.
func (s *Server) toStatus(method string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Debug("rpc abandoned", zap.String("method", method), zap.Error(err))
		return status.FromContextError(err).Err()
	case errors.Is(err, board.ErrStorage):
		s.logger.Error("rpc failed", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "storage unavailable")
	case errors.Is(err, board.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(err, board.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, board.ErrStale):
		code = codes.FailedPrecondition
	case errors.Is(err, board.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, board.ErrPermission):
		code = codes.PermissionDenied
	default:
		if st, ok := status.FromError(err); ok {
			return st.Err()
		}
		s.logger.Error("rpc failed", zap.String("method", method), zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
	s.logger.Info("rpc rejected", zap.String("method", method), zap.Stringer("code", code), zap.Error(err))
	return status.Error(code, err.Error())
}
