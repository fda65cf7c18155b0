package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulBabatuyi/msgboard-gRPC/internal/auth"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/board"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/config"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/data"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/db"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/filestore"
	"github.com/PaulBabatuyi/msgboard-gRPC/internal/middleware"
	v1 "github.com/PaulBabatuyi/msgboard-gRPC/proto/board/v1"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Dev() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	svc := board.NewService(stores.users, stores.groups, stores.messages, board.WithLogger(logger))

	var jwtMgr *auth.JWTManager
	if len(cfg.JWTKeys) > 0 {
		jwtMgr = auth.NewJWTManagerFromKeys(cfg.JWTKeys, cfg.JWTActiveKid, cfg.TokenTTL)
	} else {
		jwtMgr = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	}

	limiterStore := middleware.NewLimiterStore(cfg.RateLimitRPM, cfg.RateLimitBurst, time.Minute)
	defer limiterStore.Stop()
	limited := map[string]bool{v1.BoardService_Register_FullMethodName: true}

	var serverOpts []grpc.ServerOption
	if cfg.TLSEnabled() {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return fmt.Errorf("load TLS certs: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
	}
	serverOpts = append(serverOpts,
		grpc.ChainUnaryInterceptor(
			middleware.RateLimitUnaryInterceptor(limiterStore, limited, logger),
			authUnaryInterceptor(jwtMgr),
		),
		grpc.ChainStreamInterceptor(authStreamInterceptor(jwtMgr)),
	)

	grpcServer := grpc.NewServer(serverOpts...)
	registerService(grpcServer, newServer(svc, jwtMgr, logger))

	listenAddr := net.JoinHostPort("", cfg.Port)
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening",
			zap.String("addr", listenAddr),
			zap.String("storage", cfg.Storage),
			zap.Bool("tls", cfg.TLSEnabled()))
		serveErr <- grpcServer.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gRPC server")
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("graceful stop timed out, forcing")
		grpcServer.Stop()
	}
	return nil
}

type boardStores struct {
	users    board.UserStore
	groups   board.GroupStore
	messages board.MessageStore
}

// openStores opens the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (boardStores, func(), error) {
	switch cfg.Storage {
	case config.StorageMongo:
		dbClient, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return boardStores{}, nil, fmt.Errorf("connect to DB: %w", err)
		}
		closeDB := func() {
			if err := dbClient.Close(context.Background()); err != nil {
				logger.Warn("close DB", zap.Error(err))
			}
		}
		if err := dbClient.CreateIndexes(ctx); err != nil {
			closeDB()
			return boardStores{}, nil, fmt.Errorf("create indexes: %w", err)
		}

		msgs := data.NewMessagesStore(dbClient.MessagesCollection())
		n, err := msgs.Upgrade(ctx)
		if err != nil {
			closeDB()
			return boardStores{}, nil, fmt.Errorf("upgrade messages: %w", err)
		}
		if n > 0 {
			logger.Info("upgraded legacy messages", zap.Int64("documents", n))
		}

		return boardStores{
			users:    data.NewUsersStore(dbClient.UsersCollection()),
			groups:   data.NewGroupsStore(dbClient.GroupsCollection()),
			messages: msgs,
		}, closeDB, nil

	default:
		fs, err := filestore.Open(cfg.DataDir)
		if err != nil {
			return boardStores{}, nil, fmt.Errorf("open file storage: %w", err)
		}
		logger.Info("file storage opened", zap.String("dir", cfg.DataDir))
		return boardStores{users: fs.Users, groups: fs.Groups, messages: fs.Messages}, func() {}, nil
	}
}
