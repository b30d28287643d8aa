package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/api/middleware"
	"github.com/feral-file/og-claim/internal/api/rest"
	"github.com/feral-file/og-claim/internal/api/server"
	"github.com/feral-file/og-claim/internal/claim"
	"github.com/feral-file/og-claim/internal/config"
	"github.com/feral-file/og-claim/internal/identity"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/messaging"
	"github.com/feral-file/og-claim/internal/metrics"
	"github.com/feral-file/og-claim/internal/providers/ethereum"
	"github.com/feral-file/og-claim/internal/providers/jetstream"
	"github.com/feral-file/og-claim/internal/providers/whitelister"
	"github.com/feral-file/og-claim/internal/ratelimit"
	"github.com/feral-file/og-claim/internal/signature"
	"github.com/feral-file/og-claim/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Environment:     cfg.Environment,
		Tags: map[string]string{
			"service": "og-claim-api",
			"network": string(cfg.Network.Name),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting OG claim API", zap.String("network", string(cfg.Network.Name)))

	// Connect to database
	db, err := store.Open(cfg.Database.Driver, cfg.Database.ConnectionString(), cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := store.AutoMigrate(db); err != nil {
			logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
		}
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)
	dataStore := store.NewSQLStore(db)

	// Connect to the chain
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Network.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial RPC endpoint", zap.Error(err), zap.String("rpc_url", cfg.Network.RPCURL))
	}
	defer ethClient.Close()

	contract, err := ethereum.NewNFTContract(cfg.Network.ContractAddress, ethClient)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to bind NFT contract", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Bound NFT contract",
		zap.String("contract", cfg.Network.ContractAddress),
		zap.String("chain", string(cfg.Network.Name.Preset().Chain)))

	// Whitelisting service
	whitelistClient := whitelister.NewClient(whitelister.Config{
		BaseURL:           cfg.WhitelistService.URL,
		APIKey:            cfg.WhitelistService.APIKey,
		WhitelistTimeout:  cfg.Timeouts.Whitelist,
		StatusTimeout:     cfg.Timeouts.Read,
		RequestsPerSecond: cfg.WhitelistService.RequestsPerSecond,
		Burst:             cfg.WhitelistService.Burst,
	}, adapter.NewHTTPClient(cfg.Timeouts.Whitelist, cfg.Timeouts.Read))

	// Session verification
	authenticator, err := identity.NewAuthenticator(identity.Config{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.JWTPublicKey,
		Audience:     cfg.Auth.JWTAudience,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create session authenticator", zap.Error(err))
	}

	checks := map[string]rest.Pinger{"database": dataStore}

	// Rate limiter
	var limiter ratelimit.Limiter
	switch ratelimit.Backend(cfg.RateLimit.Backend) {
	case ratelimit.BackendRedis:
		redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close Redis client", zap.Error(err))
			}
		}()
		limiter = ratelimit.NewRedisLimiter(redisClient)
		checks["redis"] = redisClient
		logger.InfoCtx(ctx, "Using Redis rate limiter", zap.String("addr", cfg.Redis.Addr))
	default:
		memoryLimiter := ratelimit.NewMemoryLimiter(adapter.NewClock(), cfg.RateLimit.SweepInterval)
		defer memoryLimiter.Stop()
		limiter = memoryLimiter
		logger.InfoCtx(ctx, "Using in-memory rate limiter")
	}

	// Claim events
	var publisher messaging.Publisher = messaging.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create event publisher", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Publishing claim events", zap.String("stream", cfg.NATS.StreamName))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, claim events are discarded")
	}
	defer publisher.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	claimService := claim.NewService(
		claim.Config{ReadTimeout: cfg.Timeouts.Read, WriteTimeout: cfg.Timeouts.Write},
		dataStore,
		contract,
		whitelistClient,
		signature.NewVerifier(cfg.Signature.Purpose, cfg.Signature.MaxAge),
		publisher,
		m,
		adapter.NewClock(),
	)

	srv := server.New(server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		TLS:            cfg.Server.TLS,
	}, rest.NewHandler(claimService, checks), rest.RoutesConfig{
		Auth: middleware.AuthConfig{
			Authenticator: authenticator,
			APIKeys:       cfg.Auth.APIKeys,
		},
		Limiter: limiter,
		RateLimits: rest.RateLimitPolicies{
			Eligibility:     rateLimitPolicy(cfg.RateLimit.Eligibility),
			Whitelist:       rateLimitPolicy(cfg.RateLimit.Whitelist),
			WhitelistStatus: rateLimitPolicy(cfg.RateLimit.WhitelistStatus),
			Claim:           rateLimitPolicy(cfg.RateLimit.Claim),
			Token:           rateLimitPolicy(cfg.RateLimit.Token),
		},
		Metrics:  m,
		Gatherer: registry,
	})

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}

	logger.Info("API server stopped")
}

func rateLimitPolicy(p config.RateLimitPolicy) middleware.RateLimitPolicy {
	return middleware.RateLimitPolicy{
		Window:      p.Window,
		MaxRequests: p.MaxRequests,
	}
}
