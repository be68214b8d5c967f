package main

import (
	"chat-service/api/chatv1"
	"chat-service/auth"
	"chat-service/infrastructure/cache"
	"chat-service/infrastructure/events"
	"chat-service/infrastructure/grpc/server"
	"chat-service/internal"
	"chat-service/moderation"
	"chat-service/repositories"
	"chat-service/runtime/workers"
	"chat-service/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat service terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanups run before the exit code is returned to main.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, config.DebugPort, endpoint, repositories.InspectMapper)
	}

	// 3. Repositories, cache & events
	conversationRepository := repositories.NewConversationRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)

	if config.RedisURL != "" {
		redisClient, err := cache.NewClient(ctx, config.RedisURL)
		if err != nil {
			return exitRuntime, fmt.Errorf("redis connection failed: %w", err)
		}
		defer func() {
			logger.Info("Closing Redis...")
			_ = redisClient.Close()
		}()
		conversationRepository = cache.NewConversationCache(conversationRepository, redisClient,
			config.RedisKeyPrefix, config.RedisTTLDefault, logger)
		logger.Info("Conversation cache enabled", "ttl", config.RedisTTLDefault)
	}

	var downstream events.Publisher = events.NewLogPublisher(logger)
	if brokers := config.Brokers(); len(brokers) > 0 {
		writer := events.NewKafkaWriter(brokers, config.KafkaTopic, config.KafkaClientID, config.KafkaWriteTimeout)
		downstream = events.NewKafkaPublisher(writer, logger)
		logger.Info("Publishing events to Kafka", "brokers", brokers, "topic", config.KafkaTopic)
	}
	publisher := workers.NewEventDispatcher(logger, downstream, config.EventBufferSize, config.EventFlushTimeout)

	healthServer := health.NewServer()
	supervisor := workers.NewSupervisor(logger, config.RestartInterval).Add(publisher)
	if sampler, err := workers.NewProcessSampler(); err != nil {
		logger.Warn("Resource monitoring disabled", "error", err)
	} else {
		supervisor.Add(workers.NewResourceMonitor(logger, sampler, healthServer, chatv1.ServiceName,
			config.MetricInterval, config.MaxMemoryPercent))
	}
	// Not tied to the signal: the deferred Stop runs after GracefulStop drained in-flight RPCs.
	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(context.WithoutCancel(ctx))
		close(supervisorDone)
	}()
	defer func() {
		// Buffered events are flushed before the broker connection closes
		supervisor.Stop()
		<-supervisorDone
		_ = publisher.Close()
	}()

	// 4. Services
	moderator, err := moderation.NewModerator(config.CensoredWordList(), charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator init failed: %w", err)
	}
	conversationService := services.NewConversationService(conversationRepository, messageRepository, publisher, logger,
		config.MaxUpdateRetries, config.DefaultPageLimit, config.MaxPageLimit)
	messageService := services.NewMessageService(messageRepository, conversationRepository, publisher, moderator, logger,
		config.MaxUpdateRetries, config.MaxPageLimit)

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	tokens := auth.NewTokenManager(config.JwtAccessTokenSecret, config.JwtIssuer, config.AuthTokenDuration)
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			auth.NewAuthInterceptor(tokens, healthpb.Health_Check_FullMethodName),
		))
	chatv1.RegisterChatServiceServer(s, server.NewChatServer(logger, conversationService, messageService))
	healthpb.RegisterHealthServer(s, healthServer)
	healthServer.SetServingStatus(chatv1.ServiceName, healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Graceful Shutdown
	logger.Info("Shutting down gracefully...")
	healthServer.Shutdown()
	s.GracefulStop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
